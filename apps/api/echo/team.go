package echoapi

import (
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/team"
)

type teamApi struct {
	svc      team.Service
	validate *validator.Validate
}

func registerTeamAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc team.Service,
	validate *validator.Validate,
) {
	api := teamApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/teams", jwt)

	tg.GET("", api.query)
	tg.POST("", api.create)

	dg := tg.Group("/:name")
	dg.GET("", api.retrieve)
	dg.PUT("/members", api.addMember)
	dg.DELETE("/members", api.removeMember)
}

// teamName returns the :name path parameter. Team names contain spaces
// so the raw parameter arrives percent-encoded.
func teamName(ctx echo.Context) string {
	name := ctx.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}

// Handlers

func (api *teamApi) query(ctx echo.Context) error {
	teams, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data.Name)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByName(ctx.Request().Context(), teamName(ctx))
	if err != nil {
		return errors.Wrap(err, "finding team by name")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) addMember(ctx echo.Context) error {
	var data TeamMemberRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamMemberRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.AddMember(ctx.Request().Context(), teamName(ctx), data.Email)
	if err != nil {
		return errors.Wrap(err, "adding team member")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) removeMember(ctx echo.Context) error {
	var data TeamMemberRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamMemberRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.RemoveMember(ctx.Request().Context(), teamName(ctx), data.Email)
	if err != nil {
		return errors.Wrap(err, "removing team member")
	}
	return ctx.JSON(http.StatusOK, t)
}

type TeamMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (tr *TeamMemberRequest) Validate(validate *validator.Validate) error {
	tr.Email = core.CleanString(tr.Email, true /* lower */)
	return validate.Struct(tr)
}
