package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/attendance"
)

const attendanceSelect = `SELECT a.id, a.course_id, a.student_id, a.session_date, a.status, a.qr_code_scanned,
		a.notes, a.marked_at,
		COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name,
		COALESCE(s.email, '') AS email, COALESCE(c.name, '') AS course_name
	FROM attendance a
	LEFT JOIN students s ON s.id = a.student_id
	LEFT JOIN courses c ON c.id = a.course_id`

type attendanceRepository struct {
	db core.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db core.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, in attendance.NewRecord) (int64, error) {
	var id int64
	err := repo.db.Get(
		ctx, &id,
		`INSERT INTO attendance (course_id, student_id, session_date, status, qr_code_scanned, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(course_id, student_id, session_date) DO UPDATE SET
			status = excluded.status, qr_code_scanned = excluded.qr_code_scanned, notes = excluded.notes,
			marked_at = CURRENT_TIMESTAMP
		RETURNING id`,
		in.CourseID, in.StudentID, in.SessionDate, in.Status, in.QRCodeScanned, in.Notes,
	)
	return id, errors.Wrap(err, "upserting attendance")
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	var f filters
	if filter.CourseID != 0 {
		f.add("a.course_id = ?", filter.CourseID)
	}
	if filter.StudentID != 0 {
		f.add("a.student_id = ?", filter.StudentID)
	}
	if filter.SessionDate != "" {
		f.add("date(a.session_date) = date(?)", filter.SessionDate)
	}
	records := make([]attendance.Record, 0)
	err := repo.db.Select(
		ctx, &records,
		attendanceSelect+f.where()+` ORDER BY a.session_date DESC, s.last_name, s.first_name, a.id`,
		f.args...,
	)
	return records, errors.Wrap(err, "selecting attendance")
}

func (repo attendanceRepository) GetRecordByID(ctx context.Context, id int64) (attendance.Record, error) {
	var rec attendance.Record
	err := repo.db.Get(ctx, &rec, attendanceSelect+` WHERE a.id = ?`, id)
	return rec, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance by id")
}

func (repo attendanceRepository) UpdateRecord(ctx context.Context, id int64, in attendance.UpdateRecord) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE attendance SET status = ?, notes = ?, marked_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.Status, in.Notes, id,
	)
	return errors.Wrap(err, "updating attendance")
}
