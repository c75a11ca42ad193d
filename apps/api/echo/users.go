package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, guards routeGuards, svc *user.Service) {
	api := userApi{svc: svc}
	g.GET("/users", api.query, guards.admin...)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}
