package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

// REFERENCES clauses document the relations only: foreign keys are not enforced and deletes never cascade.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		profile_id INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		matricule TEXT NOT NULL UNIQUE,
		phone TEXT,
		date_of_birth TEXT,
		address TEXT,
		city TEXT,
		zip_code TEXT,
		country TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		enrollment_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		department TEXT,
		specialization TEXT,
		office TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		credits INTEGER,
		semester INTEGER,
		teacher_id INTEGER REFERENCES teachers(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS available_courses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		credits INTEGER,
		category TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		course_id INTEGER NOT NULL REFERENCES courses(id),
		grade TEXT,
		enrollment_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_id INTEGER NOT NULL,
		sender_role TEXT NOT NULL,
		recipient_id INTEGER NOT NULL,
		recipient_role TEXT NOT NULL,
		subject TEXT,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		course_id INTEGER NOT NULL REFERENCES courses(id),
		teacher_id INTEGER NOT NULL REFERENCES teachers(id),
		due_date TEXT NOT NULL,
		max_score INTEGER NOT NULL DEFAULT 20,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		assignment_id INTEGER NOT NULL REFERENCES assignments(id),
		student_id INTEGER NOT NULL REFERENCES students(id),
		file_name TEXT NOT NULL DEFAULT '',
		file_content TEXT NOT NULL DEFAULT '',
		grade REAL,
		feedback TEXT NOT NULL DEFAULT '',
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (assignment_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		course_id INTEGER NOT NULL REFERENCES courses(id),
		teacher_id INTEGER NOT NULL REFERENCES teachers(id),
		due_date TEXT NOT NULL,
		time_limit INTEGER NOT NULL DEFAULT 60,
		total_points INTEGER NOT NULL DEFAULT 20,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id INTEGER NOT NULL REFERENCES quizzes(id),
		question_text TEXT NOT NULL,
		question_type TEXT NOT NULL DEFAULT 'mcq',
		options TEXT NOT NULL DEFAULT '[]',
		correct_answer TEXT NOT NULL DEFAULT '',
		points REAL NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id INTEGER NOT NULL REFERENCES quizzes(id),
		student_id INTEGER NOT NULL REFERENCES students(id),
		answers TEXT NOT NULL DEFAULT '{}',
		is_submitted BOOLEAN NOT NULL DEFAULT 0,
		score REAL,
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (quiz_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS announcements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id INTEGER NOT NULL REFERENCES courses(id),
		teacher_id INTEGER NOT NULL REFERENCES teachers(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'normal',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS course_materials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id INTEGER NOT NULL REFERENCES courses(id),
		teacher_id INTEGER NOT NULL REFERENCES teachers(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'pdf',
		file_name TEXT NOT NULL,
		file_url TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		duration INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id INTEGER NOT NULL REFERENCES courses(id),
		student_id INTEGER NOT NULL REFERENCES students(id),
		session_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'present',
		qr_code_scanned BOOLEAN NOT NULL DEFAULT 0,
		notes TEXT,
		marked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (course_id, student_id, session_date)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		course_id INTEGER REFERENCES courses(id),
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'info',
		action_url TEXT,
		is_read BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS student_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		course_id INTEGER NOT NULL REFERENCES courses(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS student_schedule (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		course_id INTEGER NOT NULL REFERENCES courses(id),
		day_of_week TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		room TEXT NOT NULL DEFAULT '',
		instructor TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		teacher_id INTEGER NOT NULL REFERENCES teachers(id),
		student_id INTEGER NOT NULL REFERENCES students(id),
		course_id INTEGER NOT NULL DEFAULT 0,
		grade REAL,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (teacher_id, student_id, course_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_courses_teacher ON courses(teacher_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, recipient_role)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id, sender_role)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quizzes_course ON quizzes(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz ON quiz_questions(quiz_id)`,
	`CREATE INDEX IF NOT EXISTS idx_announcements_course ON announcements(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_course_materials_course ON course_materials(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_student ON notifications(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_student_notes_student ON student_notes(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_student_schedule_student ON student_schedule(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_teacher_notes_teacher ON teacher_notes(teacher_id)`,
}

// EnsureSchema creates the missing tables and indexes, then inserts the absent seed rows when seed is set.
// Running it against an up-to-date database changes nothing.
func EnsureSchema(ctx context.Context, exec core.DBExecutor, seed bool) error {
	for _, stmt := range schema {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "creating schema")
		}
	}
	if !seed {
		return nil
	}
	return Seed(ctx, exec)
}
