package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tadika/core/guard"
	"github.com/trezcool/tadika/core/profile"
)

type loadingResponse struct {
	Status string `json:"status"`
}

// guardMiddleware serves Loading as 202, redirects Denied with 303 and lets Granted through.
func guardMiddleware(roles ...profile.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			decision := guard.Evaluate(contextState(ctx), roles...)
			switch decision.Result {
			case guard.Granted:
				return next(ctx)
			case guard.Denied:
				return ctx.Redirect(http.StatusSeeOther, decision.Redirect)
			default:
				return ctx.JSON(http.StatusAccepted, loadingResponse{Status: guard.Loading.String()})
			}
		}
	}
}
