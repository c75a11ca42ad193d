package quiz

import (
	"context"
	"strconv"
	"strings"

	"github.com/trezcool/campus/core"
)

var ErrNotFound = core.NewNotFoundError("Quiz")

type (
	Repository interface {
		// CreateQuiz stores the quiz and its questions in one transaction.
		CreateQuiz(ctx context.Context, in NewQuiz) (int64, error)
		QueryQuizzes(ctx context.Context, filter Filter) ([]Quiz, error)
		GetQuizByID(ctx context.Context, id int64) (Quiz, error)
		UpdateQuiz(ctx context.Context, id int64, in UpdateQuiz) error
		// DeleteQuiz removes the questions, the answers, then the quiz, in one transaction.
		DeleteQuiz(ctx context.Context, id int64) error

		CreateQuestion(ctx context.Context, quizID int64, in NewQuestion) (int64, error)
		// QueryQuestions orders by id.
		QueryQuestions(ctx context.Context, quizID int64) ([]Question, error)

		// UpsertAnswer inserts or overwrites the answers of (quizId, studentId) in one statement.
		UpsertAnswer(ctx context.Context, in SaveAnswers) (int64, error)
		QueryAnswers(ctx context.Context, filter AnswerFilter) ([]Answer, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, in NewQuiz) (int64, error) {
	return svc.repo.CreateQuiz(ctx, in)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx, filter)
}

// GetDetail returns the quiz with its questions, without their correct answers.
func (svc *Service) GetDetail(ctx context.Context, id int64) (QuizDetail, error) {
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	questions, err := svc.repo.QueryQuestions(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	detail := QuizDetail{Quiz: qz, Questions: make([]PublicQuestion, 0, len(questions))}
	for _, q := range questions {
		detail.Questions = append(detail.Questions, q.Public())
	}
	return detail, nil
}

func (svc *Service) Update(ctx context.Context, id int64, in UpdateQuiz) error {
	return svc.repo.UpdateQuiz(ctx, id, in)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteQuiz(ctx, id)
}

func (svc *Service) AddQuestion(ctx context.Context, in AddQuestion) (int64, error) {
	return svc.repo.CreateQuestion(ctx, in.QuizID, in.NewQuestion)
}

func (svc *Service) QueryQuestions(ctx context.Context, quizID int64) ([]Question, error) {
	return svc.repo.QueryQuestions(ctx, quizID)
}

// SaveAnswers stores the answers of a student. A submitted answer set without a score is graded
// against the questions of the quiz.
func (svc *Service) SaveAnswers(ctx context.Context, in SaveAnswers) (int64, error) {
	if in.IsSubmitted && in.Score == nil {
		questions, err := svc.repo.QueryQuestions(ctx, in.QuizID)
		if err != nil {
			return 0, err
		}
		score := Score(questions, in.Answers)
		in.Score = &score
	}
	return svc.repo.UpsertAnswer(ctx, in)
}

func (svc *Service) QueryAnswers(ctx context.Context, filter AnswerFilter) ([]Answer, error) {
	return svc.repo.QueryAnswers(ctx, filter)
}

// Score sums the points of every question whose answer matches its correct answer, ignoring case
// and surrounding whitespace. Questions without a correct answer never score.
func Score(questions []Question, answers Answers) float64 {
	var score float64
	for _, q := range questions {
		correct := strings.TrimSpace(q.CorrectAnswer)
		if correct == "" {
			continue
		}
		given, ok := answers[strconv.FormatInt(q.ID, 10)]
		if ok && strings.EqualFold(strings.TrimSpace(given), correct) {
			score += q.Points
		}
	}
	return score
}
