package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/profile"
)

type languageBody struct {
	Language string `json:"language" form:"language"`
}

func (api *publicApi) language(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, languageBody{Language: string(contextStore(ctx).Language())})
}

func (api *publicApi) setLanguage(ctx echo.Context) error {
	var data languageBody
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to languageBody")
	}
	lang, ok := profile.ParseLanguage(data.Language)
	if !ok {
		return core.NewValidationError(
			profile.ErrUnsupportedLanguage,
			core.FieldError{Field: "language", Error: profile.ErrUnsupportedLanguage.Error()},
		)
	}

	store := contextStore(ctx)
	if err := store.SetLanguage(ctx.Request().Context(), lang); err != nil {
		return errors.Wrap(err, "setting language")
	}
	return ctx.JSON(http.StatusOK, languageBody{Language: string(store.Language())})
}
