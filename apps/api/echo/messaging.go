package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/messaging"
)

type messagingApi struct {
	svc *messaging.Service
}

func registerMessagingAPI(g *echo.Group, guards routeGuards, svc *messaging.Service) {
	api := messagingApi{svc: svc}

	mg := g.Group("/messages")
	mg.GET("", api.mailbox, guards.authed...)
	mg.POST("", api.send, guards.authed...)
	mg.PUT("", api.markRead, guards.authed...)

	ng := g.Group("/notifications")
	ng.GET("", api.queryNotifications, guards.authed...)
	ng.POST("", api.notify, guards.teacher...)
	ng.GET("/:id", api.retrieveNotification, guards.authed...)
	ng.PUT("/:id", api.updateNotification, guards.authed...)
}

// Handlers

func (api *messagingApi) mailbox(ctx echo.Context) error {
	var box messaging.Mailbox
	if err := bindFilter(ctx, &box); err != nil {
		return err
	}
	messages, err := api.svc.Mailbox(ctx.Request().Context(), box)
	if err != nil {
		return errors.Wrap(err, "querying mailbox")
	}
	return ctx.JSON(http.StatusOK, messages)
}

func (api *messagingApi) send(ctx echo.Context) error {
	var data messaging.NewMessage
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Send(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Message sent successfully"})
}

func (api *messagingApi) markRead(ctx echo.Context) error {
	var data messaging.MarkRead
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.MarkRead(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "marking message as read")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Message marked as read"})
}

// notifications

func (api *messagingApi) queryNotifications(ctx echo.Context) error {
	var filter messaging.NotificationFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	notifications, err := api.svc.QueryNotifications(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notifications)
}

func (api *messagingApi) notify(ctx echo.Context) error {
	var data messaging.NewNotification
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	id, err := api.svc.Notify(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return ctx.JSON(http.StatusCreated, created{ID: id, Message: "Notification created successfully"})
}

func (api *messagingApi) retrieveNotification(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.GetNotification(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding notification by ID")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *messagingApi) updateNotification(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data messaging.UpdateNotification
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.UpdateNotification(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating notification")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Notification updated successfully"})
}
