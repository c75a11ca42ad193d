package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/quiz"
)

const quizSelect = `SELECT q.id, q.title, q.description, q.course_id, q.teacher_id, q.due_date, q.time_limit,
		q.total_points, q.created_at,
		COALESCE(t.first_name, '') AS first_name, COALESCE(t.last_name, '') AS last_name,
		COALESCE(c.name, '') AS course_name
	FROM quizzes q
	LEFT JOIN teachers t ON t.id = q.teacher_id
	LEFT JOIN courses c ON c.id = q.course_id`

const answerSelect = `SELECT a.id, a.quiz_id, a.student_id, a.answers, a.is_submitted, a.score, a.submitted_at,
		COALESCE(q.title, '') AS quiz_title,
		COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name
	FROM quiz_answers a
	LEFT JOIN quizzes q ON q.id = a.quiz_id
	LEFT JOIN students s ON s.id = a.student_id`

type quizRepository struct {
	db core.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db core.DB) *quizRepository {
	return &quizRepository{db: db}
}

func insertQuestion(ctx context.Context, exec core.DBExecutor, quizID int64, in quiz.NewQuestion) (int64, error) {
	res, err := exec.Exec(
		ctx,
		`INSERT INTO quiz_questions (quiz_id, question_text, question_type, options, correct_answer, points)
		VALUES (?, ?, ?, ?, ?, ?)`,
		quizID, in.QuestionText, in.QuestionType, in.Options, in.CorrectAnswer, in.Points,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting question")
}

func (repo quizRepository) CreateQuiz(ctx context.Context, in quiz.NewQuiz) (id int64, err error) {
	err = repo.db.Transact(ctx, func(tx core.DBExecutor) error {
		res, err := tx.Exec(
			ctx,
			`INSERT INTO quizzes (title, description, course_id, teacher_id, due_date, time_limit, total_points)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			in.Title, in.Description, in.CourseID, in.TeacherID, in.DueDate, in.TimeLimit, in.TotalPoints,
		)
		if err != nil {
			return errors.Wrap(err, "inserting quiz")
		}
		id = res.LastInsertID
		for _, q := range in.Questions {
			if _, err = insertQuestion(ctx, tx, id, q); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

func (repo quizRepository) QueryQuizzes(ctx context.Context, filter quiz.Filter) ([]quiz.Quiz, error) {
	var f filters
	if filter.CourseID != 0 {
		f.add("q.course_id = ?", filter.CourseID)
	}
	if filter.TeacherID != 0 {
		f.add("q.teacher_id = ?", filter.TeacherID)
	}
	quizzes := make([]quiz.Quiz, 0)
	err := repo.db.Select(ctx, &quizzes, quizSelect+f.where()+` ORDER BY q.due_date DESC, q.id DESC`, f.args...)
	return quizzes, errors.Wrap(err, "selecting quizzes")
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id int64) (quiz.Quiz, error) {
	var qz quiz.Quiz
	err := repo.db.Get(ctx, &qz, quizSelect+` WHERE q.id = ?`, id)
	return qz, trapNoRowsErr(err, quiz.ErrNotFound, "getting quiz by id")
}

func (repo quizRepository) UpdateQuiz(ctx context.Context, id int64, in quiz.UpdateQuiz) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE quizzes SET title = ?, description = ?, due_date = ?, time_limit = ?, total_points = ? WHERE id = ?`,
		in.Title, in.Description, in.DueDate, in.TimeLimit, in.TotalPoints, id,
	)
	return errors.Wrap(err, "updating quiz")
}

func (repo quizRepository) DeleteQuiz(ctx context.Context, id int64) error {
	return repo.db.Transact(ctx, func(tx core.DBExecutor) error {
		for _, stmt := range []string{
			`DELETE FROM quiz_questions WHERE quiz_id = ?`,
			`DELETE FROM quiz_answers WHERE quiz_id = ?`,
			`DELETE FROM quizzes WHERE id = ?`,
		} {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return errors.Wrap(err, "deleting quiz")
			}
		}
		return nil
	})
}

func (repo quizRepository) CreateQuestion(ctx context.Context, quizID int64, in quiz.NewQuestion) (int64, error) {
	return insertQuestion(ctx, repo.db, quizID, in)
}

func (repo quizRepository) QueryQuestions(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	questions := make([]quiz.Question, 0)
	err := repo.db.Select(
		ctx, &questions,
		`SELECT id, quiz_id, question_text, question_type, options, correct_answer, points
		FROM quiz_questions WHERE quiz_id = ? ORDER BY id`,
		quizID,
	)
	return questions, errors.Wrap(err, "selecting questions")
}

func (repo quizRepository) UpsertAnswer(ctx context.Context, in quiz.SaveAnswers) (int64, error) {
	var id int64
	err := repo.db.Get(
		ctx, &id,
		`INSERT INTO quiz_answers (quiz_id, student_id, answers, is_submitted, score)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(quiz_id, student_id) DO UPDATE SET
			answers = excluded.answers, is_submitted = excluded.is_submitted, score = excluded.score,
			submitted_at = CURRENT_TIMESTAMP
		RETURNING id`,
		in.QuizID, in.StudentID, in.Answers, in.IsSubmitted, in.Score,
	)
	return id, errors.Wrap(err, "upserting answers")
}

func (repo quizRepository) QueryAnswers(ctx context.Context, filter quiz.AnswerFilter) ([]quiz.Answer, error) {
	var f filters
	if filter.QuizID != 0 {
		f.add("a.quiz_id = ?", filter.QuizID)
	}
	if filter.StudentID != 0 {
		f.add("a.student_id = ?", filter.StudentID)
	}
	answers := make([]quiz.Answer, 0)
	err := repo.db.Select(ctx, &answers, answerSelect+f.where()+` ORDER BY a.submitted_at DESC, a.id DESC`, f.args...)
	return answers, errors.Wrap(err, "selecting answers")
}
