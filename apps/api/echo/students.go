package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/student"
)

type (
	studentApi struct {
		svc *student.Service
	}

	// studentFilter selects the notes or the schedule of one student.
	studentFilter struct {
		StudentID int64 `query:"studentId" json:"studentId" validate:"required"`
	}
)

func registerStudentAPI(g *echo.Group, guards routeGuards, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students")
	sg.GET("", api.query, guards.authed...)
	sg.POST("", api.create, guards.admin...)
	sg.GET("/:id", api.retrieve, guards.authed...)
	sg.PUT("/:id", api.update, guards.admin...)
	sg.DELETE("/:id", api.destroy, guards.admin...)
	sg.GET("/:id/courses", api.queryCourses, guards.authed...)
	sg.GET("/:id/bulletin", api.bulletin, guards.authed...)

	sg.GET("/notes", api.queryNotes, guards.authed...)
	sg.POST("/notes", api.createNote, guards.student...)
	sg.PUT("/notes/:id", api.updateNote, guards.student...)
	sg.DELETE("/notes/:id", api.destroyNote, guards.student...)

	sg.GET("/schedule", api.querySchedule, guards.authed...)
	sg.POST("/schedule", api.createScheduleEntry, guards.student...)
	sg.PUT("/schedule/:id", api.updateScheduleEntry, guards.student...)
	sg.DELETE("/schedule/:id", api.destroyScheduleEntry, guards.student...)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.StudentInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	stu, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	stu, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data student.StudentInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	stu, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student deleted successfully"})
}

func (api *studentApi) queryCourses(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCourses(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *studentApi) bulletin(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	b, err := api.svc.Bulletin(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing bulletin")
	}
	return ctx.JSON(http.StatusOK, b)
}

// notes

func (api *studentApi) queryNotes(ctx echo.Context) error {
	var filter studentFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	notes, err := api.svc.QueryNotes(ctx.Request().Context(), filter.StudentID)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *studentApi) createNote(ctx echo.Context) error {
	var data student.NewNote
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.CreateNote(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Note created successfully"})
}

func (api *studentApi) updateNote(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data student.UpdateNote
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.UpdateNote(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Note updated successfully"})
}

func (api *studentApi) destroyNote(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteNote(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}

// schedule

func (api *studentApi) querySchedule(ctx echo.Context) error {
	var filter studentFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	entries, err := api.svc.QuerySchedule(ctx.Request().Context(), filter.StudentID)
	if err != nil {
		return errors.Wrap(err, "querying schedule")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *studentApi) createScheduleEntry(ctx echo.Context) error {
	var data student.NewScheduleEntry
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.CreateScheduleEntry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule entry")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Schedule entry created successfully"})
}

func (api *studentApi) updateScheduleEntry(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data student.UpdateScheduleEntry
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.UpdateScheduleEntry(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating schedule entry")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Schedule entry updated successfully"})
}

func (api *studentApi) destroyScheduleEntry(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteScheduleEntry(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting schedule entry")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Schedule entry deleted successfully"})
}
