package quiz

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

const (
	DefaultTimeLimit    = 60
	DefaultTotalPoints  = 20
	DefaultQuestionType = "mcq"
	DefaultPoints       = 1
)

type Quiz struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	DueDate     string    `json:"dueDate" db:"due_date"`
	TimeLimit   int64     `json:"timeLimit" db:"time_limit"`
	TotalPoints int64     `json:"totalPoints" db:"total_points"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

// QuizDetail is a quiz with its questions, correct answers left out.
type QuizDetail struct {
	Quiz
	Questions []PublicQuestion `json:"questions"`
}

type NewQuiz struct {
	Title       string        `json:"title" validate:"notblank"`
	CourseID    int64         `json:"courseId" validate:"required"`
	TeacherID   int64         `json:"teacherId" validate:"required"`
	DueDate     string        `json:"dueDate" validate:"notblank"`
	Description string        `json:"description"`
	TimeLimit   int64         `json:"timeLimit" validate:"gte=0"`
	TotalPoints int64         `json:"totalPoints" validate:"gte=0"`
	Questions   []NewQuestion `json:"questions" validate:"dive"`
}

func (in *NewQuiz) Clean() {
	if in.TimeLimit == 0 {
		in.TimeLimit = DefaultTimeLimit
	}
	if in.TotalPoints == 0 {
		in.TotalPoints = DefaultTotalPoints
	}
	for i := range in.Questions {
		in.Questions[i].Clean()
	}
}

type UpdateQuiz struct {
	Title       string `json:"title" validate:"notblank"`
	DueDate     string `json:"dueDate" validate:"notblank"`
	Description string `json:"description"`
	TimeLimit   int64  `json:"timeLimit" validate:"gte=0"`
	TotalPoints int64  `json:"totalPoints" validate:"gte=0"`
}

func (in *UpdateQuiz) Clean() {
	if in.TimeLimit == 0 {
		in.TimeLimit = DefaultTimeLimit
	}
	if in.TotalPoints == 0 {
		in.TotalPoints = DefaultTotalPoints
	}
}

type Filter struct {
	CourseID  int64 `query:"courseId"`
	TeacherID int64 `query:"teacherId"`
}

// Options is the list of choices of a question, stored as JSON text.
type Options []string

func (o Options) Value() (driver.Value, error) {
	if o == nil {
		o = Options{}
	}
	b, err := json.Marshal([]string(o))
	return string(b), err
}

func (o *Options) Scan(src interface{}) error {
	*o = Options{}
	return scanJSON(src, o)
}

// Answers maps a question id to the answer given by the student, stored as JSON text.
type Answers map[string]string

func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		a = Answers{}
	}
	b, err := json.Marshal(map[string]string(a))
	return string(b), err
}

func (a *Answers) Scan(src interface{}) error {
	*a = Answers{}
	return scanJSON(src, a)
}

func scanJSON(src, dest interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("cannot scan %T as JSON", src)
	}
	if len(data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, dest), "decoding JSON column")
}

type Question struct {
	ID            int64   `json:"id" db:"id"`
	QuizID        int64   `json:"quizId" db:"quiz_id"`
	QuestionText  string  `json:"questionText" db:"question_text"`
	QuestionType  string  `json:"questionType" db:"question_type"`
	Options       Options `json:"options" db:"options"`
	CorrectAnswer string  `json:"correctAnswer" db:"correct_answer"`
	Points        float64 `json:"points" db:"points"`
}

// PublicQuestion is a Question as shown to whoever takes the quiz.
type PublicQuestion struct {
	ID           int64   `json:"id"`
	QuizID       int64   `json:"quizId"`
	QuestionText string  `json:"questionText"`
	QuestionType string  `json:"questionType"`
	Options      Options `json:"options"`
	Points       float64 `json:"points"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      q.Options,
		Points:       q.Points,
	}
}

type NewQuestion struct {
	QuestionText  string  `json:"questionText" validate:"notblank"`
	QuestionType  string  `json:"questionType"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correctAnswer"`
	Points        float64 `json:"points" validate:"gte=0"`
}

func (in *NewQuestion) Clean() {
	in.QuestionText = core.CleanString(in.QuestionText)
	in.QuestionType = core.CleanString(in.QuestionType, true /* lower */)
	if in.QuestionType == "" {
		in.QuestionType = DefaultQuestionType
	}
	if in.Options == nil {
		in.Options = Options{}
	}
	if in.Points == 0 {
		in.Points = DefaultPoints
	}
}

// AddQuestion is a question posted on its own, which must name its quiz.
type AddQuestion struct {
	QuizID int64 `json:"quizId" validate:"required"`
	NewQuestion
}

type QuestionFilter struct {
	QuizID int64 `query:"quizId" json:"quizId" validate:"required"`
}

type Answer struct {
	ID          int64     `json:"id" db:"id"`
	QuizID      int64     `json:"quizId" db:"quiz_id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	Answers     Answers   `json:"answers" db:"answers"`
	IsSubmitted bool      `json:"isSubmitted" db:"is_submitted"`
	Score       *float64  `json:"score" db:"score"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`

	QuizTitle string `json:"quizTitle" db:"quiz_title"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}

type SaveAnswers struct {
	QuizID      int64    `json:"quizId" validate:"required"`
	StudentID   int64    `json:"studentId" validate:"required"`
	Answers     Answers  `json:"answers"`
	IsSubmitted bool     `json:"isSubmitted"`
	Score       *float64 `json:"score" validate:"omitempty,gte=0"`
}

func (in *SaveAnswers) Clean() {
	if in.Answers == nil {
		in.Answers = Answers{}
	}
}

type AnswerFilter struct {
	QuizID    int64 `query:"quizId"`
	StudentID int64 `query:"studentId"`
}
