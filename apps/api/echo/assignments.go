package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/assignment"
)

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(g *echo.Group, guards routeGuards, svc *assignment.Service) {
	api := assignmentApi{svc: svc}

	ag := g.Group("/assignments")
	ag.GET("", api.query, guards.authed...)
	ag.POST("", api.create, guards.teacher...)
	ag.GET("/:id", api.retrieve, guards.authed...)
	ag.PUT("/:id", api.update, guards.teacher...)
	ag.DELETE("/:id", api.destroy, guards.teacher...)

	sg := g.Group("/submissions")
	sg.GET("", api.querySubmissions, guards.authed...)
	sg.POST("", api.submit, guards.student...)
	sg.GET("/:id", api.retrieveSubmission, guards.authed...)
	sg.PUT("/:id", api.grade, guards.teacher...)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	var filter assignment.Filter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	assignments, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Assignment created successfully"})
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	asg, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data assignment.UpdateAssignment
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Assignment updated successfully"})
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Assignment deleted successfully"})
}

// submissions

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	var filter assignment.SubmissionFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	submissions, err := api.svc.QuerySubmissions(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, submissions)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Assignment submitted successfully"})
}

func (api *assignmentApi) retrieveSubmission(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.GetSubmission(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding submission by ID")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data assignment.GradeSubmission
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Grade(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Submission graded successfully"})
}
