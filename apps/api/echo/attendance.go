package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, guards routeGuards, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.GET("", api.query, guards.authed...)
	ag.POST("", api.mark, guards.teacher...)
	ag.GET("/session", api.session, guards.authed...)
	ag.GET("/session/qr.png", api.sessionQRCode, guards.authed...)
	ag.GET("/:id", api.retrieve, guards.authed...)
	ag.PUT("/:id", api.update, guards.teacher...)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	var filter attendance.Filter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, created{ID: id, Message: "Attendance marked successfully"})
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding attendance record by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data attendance.UpdateRecord
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating attendance record")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Attendance updated successfully"})
}

func (api *attendanceApi) session(ctx echo.Context) error {
	var req attendance.SessionRequest
	if err := bindFilter(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attendance.NewSession(req))
}

func (api *attendanceApi) sessionQRCode(ctx echo.Context) error {
	var req attendance.SessionRequest
	if err := bindFilter(ctx, &req); err != nil {
		return err
	}
	png, err := attendance.NewSession(req).QRCode()
	if err != nil {
		return errors.Wrap(err, "rendering session QR code")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
