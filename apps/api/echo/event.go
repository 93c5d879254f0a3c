package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core/event"
)

type eventApi struct {
	svc event.Service
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc event.Service) {
	api := eventApi{svc: svc}

	eg := g.Group("/events")

	// un-authed endpoints
	eg.GET("", api.query)

	// authed endpoints
	ag := eg.Group("/:id", jwt)
	ag.GET("/attendees", api.queryAttendees)
	ag.PUT("/attend", api.attend)
	ag.PUT("/unattend", api.unattend)
}

// Handlers

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) queryAttendees(ctx echo.Context) error {
	attendees, err := api.svc.GetAttendees(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting attendees")
	}
	return ctx.JSON(http.StatusOK, attendees)
}

// attend signs the authenticated student up for the event. The email comes
// from the JWT claims, never the request body.
func (api *eventApi) attend(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	attendees, err := api.svc.Attend(ctx.Request().Context(), ctx.Param("id"), claims.Email)
	if err != nil {
		return errors.Wrap(err, "attending event")
	}
	return ctx.JSON(http.StatusOK, attendees)
}

func (api *eventApi) unattend(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	attendees, err := api.svc.Unattend(ctx.Request().Context(), ctx.Param("id"), claims.Email)
	if err != nil {
		return errors.Wrap(err, "unattending event")
	}
	return ctx.JSON(http.StatusOK, attendees)
}
