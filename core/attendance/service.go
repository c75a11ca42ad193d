package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/trezcool/campus/core"
)

const (
	dateLayout = "2006-01-02"
	qrSize     = 256
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = core.NewNotFoundError("Attendance record")
)

type (
	Repository interface {
		// UpsertRecord inserts or overwrites the record of (courseId, studentId, sessionDate) in one statement.
		UpsertRecord(ctx context.Context, in NewRecord) (int64, error)
		// QueryRecords orders by session date, latest first.
		QueryRecords(ctx context.Context, filter Filter) ([]Record, error)
		GetRecordByID(ctx context.Context, id int64) (Record, error)
		UpdateRecord(ctx context.Context, id int64, in UpdateRecord) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Mark(ctx context.Context, in NewRecord) (int64, error) {
	return svc.repo.UpsertRecord(ctx, in)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int64, in UpdateRecord) error {
	return svc.repo.UpdateRecord(ctx, id, in)
}

// NewSession builds the session label `attendance-<courseId>-<date>-<epochMillis>`; date defaults to today.
func NewSession(req SessionRequest) Session {
	now := NowFunc()
	date := core.CleanString(req.Date)
	if date == "" {
		date = now.Format(dateLayout)
	}
	return Session{
		CourseID: req.CourseID,
		Date:     date,
		Token:    fmt.Sprintf("attendance-%d-%s-%d", req.CourseID, date, now.UnixNano()/int64(time.Millisecond)),
	}
}

// QRCode renders the session token as a PNG image.
func (s Session) QRCode() ([]byte, error) {
	png, err := qrcode.Encode(s.Token, qrcode.Medium, qrSize)
	return png, errors.Wrap(err, "encoding QR code")
}
