package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type cleaner interface {
	Clean()
}

// bindAndValidate binds the request into data, cleans it when it knows how, then validates it.
func bindAndValidate(ctx echo.Context, data interface{}) error {
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if c, ok := data.(cleaner); ok {
		c.Clean()
	}
	return ctx.Validate(data)
}

// bindFilter binds the query string of a list request into filter and validates it.
func bindFilter(ctx echo.Context, filter interface{}) error {
	if err := ctx.Bind(filter); err != nil {
		return err
	}
	return ctx.Validate(filter)
}

func idParam(ctx echo.Context, name ...string) (int64, error) {
	param := "id"
	if len(name) > 0 {
		param = name[0]
	}
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.WithStack(errInvalidID)
	}
	return id, nil
}

// created is the body of 201 responses for rows whose full representation is not echoed back.
type created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
