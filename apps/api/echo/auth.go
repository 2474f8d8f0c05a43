package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/guard"
)

// Paths
const (
	homePath     = "/"
	registerPath = "/register"
	logoutPath   = "/logout"
	languagePath = "/language"
)

type (
	// authFailure is returned with 400 when signing in or up fails; the email is echoed back.
	authFailure struct {
		Error string `json:"error"`
		Email string `json:"email"`
	}

	homePage struct {
		AppName    string `json:"app_name"`
		EnterApp   string `json:"enter_app"`
		HowItWorks string `json:"how_it_works"`
		Language   string `json:"language"`
	}
)

type publicApi struct {
	opts *Options
}

func registerPublicAPI(e *echo.Echo, opts *Options) {
	api := publicApi{opts: opts}

	e.GET(homePath, api.home)

	e.GET(guard.LoginPath, api.loginPage)
	e.POST(guard.LoginPath, api.login)
	e.POST(logoutPath, api.logout)

	e.GET(registerPath, api.registerPage)
	e.POST(registerPath, api.register)

	e.GET(languagePath, api.language)
	e.PUT(languagePath, api.setLanguage)
}

// Handlers

func (api *publicApi) home(ctx echo.Context) error {
	lang := contextStore(ctx).Language()
	tr := api.opts.I18n
	return ctx.JSON(http.StatusOK, homePage{
		AppName:    tr.T(lang, "appName"),
		EnterApp:   tr.T(lang, "enterApp"),
		HowItWorks: tr.T(lang, "howItWorks"),
		Language:   string(lang),
	})
}

func (api *publicApi) loginPage(ctx echo.Context) error {
	if contextState(ctx).Authenticated() {
		return ctx.Redirect(http.StatusSeeOther, guard.DashboardPath)
	}
	return ctx.JSON(http.StatusOK, newFormPage(
		api.opts.I18n, contextStore(ctx).Language(), "login", guard.LoginPath, "signIn",
		fieldSpec{"email", "email", "email"},
		fieldSpec{"password", "password", "password"},
	))
}

func (api *publicApi) login(ctx echo.Context) error {
	var data auth.SignInRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignInRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	store := contextStore(ctx)
	if err := store.SignIn(ctx.Request().Context(), data.Email, data.Password); err != nil {
		return ctx.JSON(http.StatusBadRequest, authFailure{Error: auth.Message(err), Email: data.Email})
	}
	return ctx.Redirect(http.StatusSeeOther, guard.DashboardPath)
}

func (api *publicApi) logout(ctx echo.Context) error {
	if err := contextStore(ctx).SignOut(ctx.Request().Context()); err != nil {
		api.opts.Logger.Warn("signing out: "+err.Error(), err)
	}
	clearSessionCookie(ctx, api.opts.Conf)
	return ctx.Redirect(http.StatusSeeOther, guard.LoginPath)
}

func (api *publicApi) registerPage(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, newFormPage(
		api.opts.I18n, contextStore(ctx).Language(), "createAccount", registerPath, "signUp",
		fieldSpec{"full_name", "fullName", "text"},
		fieldSpec{"email", "email", "email"},
		fieldSpec{"phone", "phone", "tel"},
		fieldSpec{"password", "password", "password"},
	))
}

func (api *publicApi) register(ctx echo.Context) error {
	var data auth.Registration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}

	if _, err := api.opts.Onboarding.Register(ctx.Request().Context(), data); err != nil {
		if authErr, ok := auth.AsAuthError(err); ok {
			return ctx.JSON(http.StatusBadRequest, authFailure{Error: authErr.Message, Email: data.Email})
		}
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, guard.LoginPath)
}
