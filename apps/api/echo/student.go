package echoapi

import (
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/student"
)

const confirmEmailErrMsg = "Error Validating Email"

type authApi struct {
	conf     *core.Config
	svc      student.Service
	validate *validator.Validate
}

func registerAuthAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	conf *core.Config,
	svc student.Service,
	validate *validator.Validate,
) {
	api := authApi{
		conf:     conf,
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/confirm/:token", api.confirmEmail)
	ag.POST("/forgot", api.forgotPassword)
	ag.GET("/reset/:token", api.checkResetToken)
	ag.POST("/reset/:token", api.resetPassword)

	// authed endpoints
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}

	claims := GetStudentClaims(api.conf, std)
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: "JWT " + token, Student: std})
}

// confirmEmail lands the address verification link. Both outcomes redirect
// to the frontend; the result travels via the querystring.
func (api *authApi) confirmEmail(ctx echo.Context) error {
	if _, err := api.svc.ConfirmEmail(ctx.Request().Context(), ctx.Param("token")); err != nil {
		qs := url.Values{"err": {confirmEmailErrMsg}}
		return ctx.Redirect(http.StatusFound, api.conf.FrontendBaseURL+"/?"+qs.Encode())
	}
	qs := url.Values{"verify": {"success"}}
	return ctx.Redirect(http.StatusFound, api.conf.FrontendBaseURL+"/auth/?"+qs.Encode())
}

func (api *authApi) forgotPassword(ctx echo.Context) error {
	var data ForgotPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForgotPasswordRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.ForgotPassword(ctx.Request().Context(), data.Email)
	if err != nil {
		return errors.Wrap(err, "requesting password reset")
	}
	return ctx.JSON(http.StatusOK, RecipientResponse{Recipient: std.Email})
}

// checkResetToken lands the reset link from the email. On success the
// frontend gets a short-lived pass-token to present on the follow-up POST.
func (api *authApi) checkResetToken(ctx echo.Context) error {
	passToken, err := api.svc.CheckResetToken(ctx.Request().Context(), ctx.Param("token"))
	if err != nil {
		qs := url.Values{"err": {errors.Cause(err).Error()}}
		return ctx.Redirect(http.StatusFound, api.conf.FrontendBaseURL+"/?"+qs.Encode())
	}
	qs := url.Values{"token": {passToken}}
	return ctx.Redirect(http.StatusFound, api.conf.FrontendBaseURL+"/auth/reset/?"+qs.Encode())
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data student.ResetStudentPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetStudentPassword")
	}
	data.PassToken = ctx.Param("token")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.ResetPassword(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, StudentResponse{Student: std})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: "JWT " + token})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token   string          `json:"token"`
		Student student.Student `json:"user"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	RecipientResponse struct {
		Recipient string `json:"recipient"`
	}

	StudentResponse struct {
		Student student.Student `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (fr *ForgotPasswordRequest) Validate(validate *validator.Validate) error {
	fr.Email = core.CleanString(fr.Email, true /* lower */)
	return validate.Struct(fr)
}
