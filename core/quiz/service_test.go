package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	questions := []Question{
		{ID: 1, CorrectAnswer: "Paris", Points: 2},
		{ID: 2, CorrectAnswer: "4", Points: 1},
		{ID: 3, CorrectAnswer: "", Points: 5},
		{ID: 4, CorrectAnswer: "go", Points: 3},
	}

	tests := []struct {
		name    string
		answers Answers
		want    float64
	}{
		{name: "no answers", answers: Answers{}, want: 0},
		{name: "all correct", answers: Answers{"1": "Paris", "2": "4", "4": "go"}, want: 6},
		{name: "case and spaces ignored", answers: Answers{"1": "  paris ", "4": "GO"}, want: 5},
		{name: "wrong answers", answers: Answers{"1": "Lyon", "2": "5"}, want: 0},
		{name: "question without correct answer", answers: Answers{"3": ""}, want: 0},
		{name: "unknown question", answers: Answers{"99": "Paris"}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(questions, tc.answers))
		})
	}
}

func TestNewQuizClean(t *testing.T) {
	in := NewQuiz{Questions: []NewQuestion{{QuestionText: " Q? "}}}
	in.Clean()

	assert.EqualValues(t, DefaultTimeLimit, in.TimeLimit)
	assert.EqualValues(t, DefaultTotalPoints, in.TotalPoints)
	assert.Equal(t, "Q?", in.Questions[0].QuestionText)
	assert.Equal(t, DefaultQuestionType, in.Questions[0].QuestionType)
	assert.EqualValues(t, DefaultPoints, in.Questions[0].Points)
	assert.Equal(t, Options{}, in.Questions[0].Options)
}

func TestOptionsScan(t *testing.T) {
	var o Options
	assert.NoError(t, o.Scan(`["a","b"]`))
	assert.Equal(t, Options{"a", "b"}, o)

	assert.NoError(t, o.Scan(nil))
	assert.Equal(t, Options{}, o)

	assert.Error(t, o.Scan(42))

	v, err := Options(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)
}
