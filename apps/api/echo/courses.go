package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, guards routeGuards, svc *course.Service) {
	api := courseApi{svc: svc}

	g.GET("/available-courses", api.queryAvailable)

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create, guards.admin...)
	cg.POST("/enroll", api.enroll, guards.authed...)
	cg.GET("/:id", api.retrieve, guards.authed...)
	cg.PUT("/:id", api.update, guards.admin...)
	cg.DELETE("/:id", api.destroy, guards.admin...)
	cg.GET("/:id/enrollments", api.queryEnrollments, guards.authed...)
	cg.POST("/:id/drop", api.drop, guards.authed...)

	ag := g.Group("/announcements")
	ag.GET("", api.queryAnnouncements, guards.authed...)
	ag.POST("", api.createAnnouncement, guards.teacher...)
	ag.GET("/:id", api.retrieveAnnouncement, guards.authed...)
	ag.PUT("/:id", api.updateAnnouncement, guards.teacher...)
	ag.DELETE("/:id", api.destroyAnnouncement, guards.teacher...)

	mg := g.Group("/course-materials")
	mg.GET("", api.queryMaterials, guards.authed...)
	mg.POST("", api.createMaterial, guards.teacher...)
	mg.GET("/:id", api.retrieveMaterial, guards.authed...)
	mg.DELETE("/:id", api.destroyMaterial, guards.teacher...)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	var filter course.Filter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	courses, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryAvailable(ctx echo.Context) error {
	courses, err := api.svc.QueryAvailable(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying available courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.CourseInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	crs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	crs, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data course.CourseInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course updated successfully"})
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}

// enrollments

func (api *courseApi) enroll(ctx echo.Context) error {
	var data course.EnrollRequest
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Enrolled successfully"})
}

func (api *courseApi) drop(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data course.DropRequest
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Drop(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "dropping course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course dropped successfully"})
}

func (api *courseApi) queryEnrollments(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.svc.QueryEnrollments(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

// announcements

func (api *courseApi) queryAnnouncements(ctx echo.Context) error {
	var filter course.ListFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	announcements, err := api.svc.QueryAnnouncements(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, announcements)
}

func (api *courseApi) createAnnouncement(ctx echo.Context) error {
	var data course.NewAnnouncement
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.CreateAnnouncement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Announcement created successfully"})
}

func (api *courseApi) retrieveAnnouncement(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	ann, err := api.svc.GetAnnouncement(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding announcement by ID")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *courseApi) updateAnnouncement(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data course.UpdateAnnouncement
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.UpdateAnnouncement(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Announcement updated successfully"})
}

func (api *courseApi) destroyAnnouncement(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAnnouncement(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Announcement deleted successfully"})
}

// materials

func (api *courseApi) queryMaterials(ctx echo.Context) error {
	var filter course.ListFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	materials, err := api.svc.QueryMaterials(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	return ctx.JSON(http.StatusOK, materials)
}

func (api *courseApi) createMaterial(ctx echo.Context) error {
	var data course.NewMaterial
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.CreateMaterial(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating material")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Material created successfully"})
}

func (api *courseApi) retrieveMaterial(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	mat, err := api.svc.GetMaterial(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding material by ID")
	}
	return ctx.JSON(http.StatusOK, mat)
}

func (api *courseApi) destroyMaterial(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteMaterial(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting material")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Material deleted successfully"})
}
