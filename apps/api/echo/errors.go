package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/event"
	"github.com/ttuacm/sdc-backend/core/member"
	"github.com/ttuacm/sdc-backend/core/student"
	"github.com/ttuacm/sdc-backend/core/team"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "account not authenticated")
	errRefreshExpired = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			code, message = mapDomainError(errors.Cause(err))
			if code == http.StatusInternalServerError {
				var std student.Student
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					std.ID = claims.Subject
					std.Email = claims.Email
					std.FirstName = claims.FirstName
				}
				logger.Error(message.(string), errors.Wrap(err, message.(string)), std)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// mapDomainError translates core service errors to HTTP codes. Services
// never see HTTP; this is the only place the mapping lives.
func mapDomainError(err error) (int, interface{}) {
	switch err {
	case student.ErrNotFound, member.ErrNotFound, team.ErrNotFound:
		return http.StatusNotFound, err.Error()
	case student.ErrEmailExists, member.ErrEmailExists, team.ErrNameExists:
		return http.StatusConflict, err.Error()
	case student.ErrInvalidLogin, student.ErrNotVerified:
		return http.StatusUnauthorized, err.Error()
	case student.ErrInvalidToken, student.ErrTokenExpired:
		return http.StatusNotFound, err.Error()
	case event.ErrNoAttendees:
		return http.StatusNotFound, err.Error()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
