package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/quiz"
	"github.com/trezcool/campus/core/user"
)

type quizApi struct {
	svc *quiz.Service
}

func registerQuizAPI(g *echo.Group, guards routeGuards, svc *quiz.Service) {
	api := quizApi{svc: svc}

	qg := g.Group("/quizzes")
	qg.GET("", api.query, guards.authed...)
	qg.POST("", api.create, guards.teacher...)
	qg.GET("/:id", api.retrieve, guards.authed...)
	qg.PUT("/:id", api.update, guards.teacher...)
	qg.DELETE("/:id", api.destroy, guards.teacher...)

	g.GET("/quiz-questions", api.queryQuestions, guards.authed...)
	g.POST("/quiz-questions", api.addQuestion, guards.teacher...)

	g.GET("/quiz-answers", api.queryAnswers, guards.authed...)
	g.POST("/quiz-answers", api.saveAnswers, guards.student...)
}

// Handlers

func (api *quizApi) query(ctx echo.Context) error {
	var filter quiz.Filter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	quizzes, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Quiz created successfully"})
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.GetDetail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding quiz by ID")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *quizApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data quiz.UpdateQuiz
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating quiz")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Quiz updated successfully"})
}

func (api *quizApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Quiz deleted successfully"})
}

// questions

// queryQuestions lists the questions of a quiz; students never see the correct answers.
func (api *quizApi) queryQuestions(ctx echo.Context) error {
	var filter quiz.QuestionFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	questions, err := api.svc.QueryQuestions(ctx.Request().Context(), filter.QuizID)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.Role != user.RoleStudent {
		return ctx.JSON(http.StatusOK, questions)
	}
	public := make([]quiz.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return ctx.JSON(http.StatusOK, public)
}

func (api *quizApi) addQuestion(ctx echo.Context) error {
	var data quiz.AddQuestion
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.AddQuestion(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Question added successfully"})
}

// answers

func (api *quizApi) queryAnswers(ctx echo.Context) error {
	var filter quiz.AnswerFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	answers, err := api.svc.QueryAnswers(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying answers")
	}
	return ctx.JSON(http.StatusOK, answers)
}

func (api *quizApi) saveAnswers(ctx echo.Context) error {
	var data quiz.SaveAnswers
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.Role == user.RoleStudent {
		// students answer for themselves and are always graded by the server
		if claims.ProfileID == nil || *claims.ProfileID != data.StudentID {
			return errHttpForbidden
		}
		data.Score = nil
	}
	id, err := api.svc.SaveAnswers(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving answers")
	}
	return ctx.JSON(http.StatusOK, created{ID: id, Message: "Answers saved successfully"})
}
