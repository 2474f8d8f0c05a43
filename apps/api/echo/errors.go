package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/childcare"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		if authErr, ok := auth.AsAuthError(err); ok {
			code = http.StatusBadRequest
			if authErr.Message == auth.MsgUnavailable {
				code = http.StatusServiceUnavailable
			}
			message = authErr.Message
		} else {
			switch origErr := errors.Cause(err).(type) {
			case *echo.HTTPError:
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
				switch origErr {
				case childcare.ErrNotAssigned:
					code = http.StatusForbidden
					message = origErr.Error()
				case childcare.ErrNotFound:
					code = http.StatusNotFound
					message = origErr.Error()
				default: // any other error is a server error
					code = http.StatusInternalServerError
					msg := http.StatusText(http.StatusInternalServerError)
					message = msg

					var extras []interface{}
					if st := contextState(ctx); st.Profile != nil {
						extras = append(extras, *st.Profile)
					}
					logger.Error(msg, append([]interface{}{errors.Wrap(err, msg)}, extras...)...)

					// shutting down...
					if core.IsShutdown(err) {
						signalShutdown()
					}
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
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
