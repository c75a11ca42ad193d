package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/course"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
)

type (
	teacherApi struct {
		svc *teacher.Service
	}

	courseQuery struct {
		CourseID int64 `query:"courseId" json:"courseId" validate:"required"`
	}
)

func registerTeacherAPI(g *echo.Group, guards routeGuards, svc *teacher.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers")
	tg.GET("", api.query, guards.authed...)
	tg.POST("", api.create, guards.admin...)
	tg.GET("/:id", api.retrieve, guards.authed...)

	tg.GET("/:id/courses", api.queryCourses, guards.authed...)
	tg.POST("/:id/courses", api.addCourse, guards.teacher...)
	tg.DELETE("/:id/courses", api.removeCourse, guards.teacher...)

	tg.GET("/grades", api.queryGrades, guards.teacher...)
	tg.POST("/grades", api.saveGrade, guards.teacher...)
}

// ownProfile returns the :id path param if it is the teacher profile of the session; admins may use any.
func ownProfile(ctx echo.Context) (int64, error) {
	id, err := idParam(ctx)
	if err != nil {
		return 0, err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return 0, err
	}
	if claims.Role == user.RoleAdmin || (claims.ProfileID != nil && *claims.ProfileID == id) {
		return id, nil
	}
	return 0, errHttpForbidden
}

// Handlers

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.TeacherInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Teacher created successfully"})
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) queryCourses(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCourses(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying teacher courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *teacherApi) addCourse(ctx echo.Context) error {
	id, err := ownProfile(ctx)
	if err != nil {
		return err
	}
	var data course.CourseInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	crs, err := api.svc.AddCourse(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "adding teacher course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *teacherApi) removeCourse(ctx echo.Context) error {
	id, err := ownProfile(ctx)
	if err != nil {
		return err
	}
	var query courseQuery
	if err := bindFilter(ctx, &query); err != nil {
		return err
	}
	if err := api.svc.RemoveCourse(ctx.Request().Context(), id, query.CourseID); err != nil {
		return errors.Wrap(err, "removing teacher course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}

func (api *teacherApi) queryGrades(ctx echo.Context) error {
	var filter teacher.GradeFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	grades, err := api.svc.QueryGrades(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *teacherApi) saveGrade(ctx echo.Context) error {
	var data teacher.GradeInput
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.SaveGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving grade")
	}
	return ctx.JSON(http.StatusOK, created{ID: id, Message: "Grade saved successfully"})
}
