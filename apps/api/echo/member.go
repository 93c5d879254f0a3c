package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core/member"
)

type memberApi struct {
	svc      member.Service
	validate *validator.Validate
}

func registerMemberAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	admin echo.MiddlewareFunc,
	svc member.Service,
	validate *validator.Validate,
) {
	api := memberApi{
		svc:      svc,
		validate: validate,
	}

	mg := g.Group("/members", jwt)

	mg.GET("", api.query)
	mg.POST("", api.create)
	mg.PUT("/subscribe", api.subscribe)
	mg.PUT("/unsubscribe", api.unsubscribe)
	mg.PUT("/pay-dues", api.payDues)
	mg.DELETE("", api.reset, admin)
}

// Handlers

func (api *memberApi) query(ctx echo.Context) error {
	members, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []member.Member{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *memberApi) create(ctx echo.Context) error {
	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mbr, err := api.svc.Create(ctx.Request().Context(), data.Email)
	if err != nil {
		return errors.Wrap(err, "creating member")
	}
	return ctx.JSON(http.StatusCreated, mbr)
}

func (api *memberApi) subscribe(ctx echo.Context) error {
	var data member.Subscription
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Subscription")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mbr, err := api.svc.Subscribe(ctx.Request().Context(), data.Email, data.Groups)
	if err != nil {
		return errors.Wrap(err, "subscribing member")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) unsubscribe(ctx echo.Context) error {
	var data member.Subscription
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Subscription")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mbr, err := api.svc.Unsubscribe(ctx.Request().Context(), data.Email, data.Groups)
	if err != nil {
		return errors.Wrap(err, "unsubscribing member")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) payDues(ctx echo.Context) error {
	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mbr, err := api.svc.PayDues(ctx.Request().Context(), data.Email)
	if err != nil {
		return errors.Wrap(err, "marking dues paid")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) reset(ctx echo.Context) error {
	if err := api.svc.Reset(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "resetting members")
	}
	return ctx.NoContent(http.StatusNoContent)
}
