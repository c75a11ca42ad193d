package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// Error codes of the envelope besides those defined in core.
const (
	codeBadRequest = "bad_request"
	codeForbidden  = "forbidden"
	codeInternal   = "internal_error"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errTokenRevoked         = echo.NewHTTPError(http.StatusUnauthorized, "session has been revoked")
	errRefreshExpired       = echo.NewHTTPError(http.StatusUnauthorized, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errInvalidID            = echo.NewHTTPError(http.StatusBadRequest, "invalid id")
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusUnauthorized:
		return core.CodeUnauthorized
	case http.StatusForbidden:
		return codeForbidden
	case http.StatusNotFound:
		return core.CodeNotFound
	case http.StatusConflict:
		return core.CodeConflict
	case http.StatusInternalServerError:
		return codeInternal
	default:
		return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var status int
		var res ErrorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				status = http.StatusUnauthorized
				res = ErrorResponse{Error: "missing or malformed jwt", Code: core.CodeUnauthorized}
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			status = origErr.Code
			res = ErrorResponse{Error: httpErrorMessage(origErr), Code: httpErrorCode(status)}
		case validator.ValidationErrors:
			flds := make(map[string]string, len(origErr))
			names := make([]string, 0, len(origErr))
			for _, vErr := range origErr {
				flds[vErr.Field()] = vErr.Translate(translator)
				names = append(names, vErr.Field())
			}
			status = http.StatusBadRequest
			res = ErrorResponse{Error: "invalid fields: " + strings.Join(names, ", "), Code: core.CodeValidation, Fields: flds}
		case *core.ValidationError:
			status = http.StatusBadRequest
			res = ErrorResponse{Error: origErr.Error(), Code: origErr.Code}
			if len(origErr.Fields) > 0 {
				res.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					res.Fields[fErr.Field] = fErr.Error
				}
			}
		case *core.NotFoundError:
			status = http.StatusNotFound
			res = ErrorResponse{Error: origErr.Error(), Code: core.CodeNotFound}
		case *core.ConflictError:
			status = http.StatusConflict
			res = ErrorResponse{Error: origErr.Err.Error(), Code: core.CodeConflict}
		case *core.StorageUnavailableError:
			status = http.StatusInternalServerError
			res = ErrorResponse{Error: "storage unavailable", Code: core.CodeStorageUnavailable}
			logger.Error(err.Error(), err, contextUser(ctx))
		default: // any other error is a server error
			status = http.StatusInternalServerError
			res = ErrorResponse{Error: http.StatusText(status), Code: codeInternal}
			logger.Error(err.Error(), err, contextUser(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && status >= http.StatusInternalServerError {
			res.Error = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(status)
			} else {
				err = ctx.JSON(status, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func httpErrorMessage(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}

// contextUser rebuilds the user behind the request from its claims, for logging.
func contextUser(ctx echo.Context) user.User {
	var usr user.User
	if claims, err := getContextClaims(ctx); err == nil {
		usr.ID = claims.UserID
		usr.Name = claims.Name
		usr.Email = claims.Email
		usr.Role = claims.Role
	}
	return usr
}
