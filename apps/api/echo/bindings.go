package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tadika/core/i18n"
	"github.com/trezcool/tadika/core/profile"
)

var limitParam = "limit"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Limit struct {
	Value int
}

func (lim *Limit) Bind(ctx echo.Context) {
	lim.Value = defaultLimit
	val := ctx.QueryParam(limitParam)
	if val == "" {
		return
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return
	}
	if n > maxLimit {
		n = maxLimit
	}
	lim.Value = n
}

// Field describes one input of a form page.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// FormPage is the body of the GET side of a form endpoint.
type FormPage struct {
	Title    string  `json:"title"`
	Action   string  `json:"action"`
	Submit   string  `json:"submit"`
	Fields   []Field `json:"fields"`
	Language string  `json:"language"`
}

type fieldSpec struct {
	name, label, typ string
}

func newFormPage(tr *i18n.Translator, lang profile.Language, title, action, submit string, fields ...fieldSpec) FormPage {
	page := FormPage{
		Title:    tr.T(lang, title),
		Action:   action,
		Submit:   tr.T(lang, submit),
		Fields:   make([]Field, len(fields)),
		Language: string(lang),
	}
	for i, f := range fields {
		page.Fields[i] = Field{Name: f.name, Label: tr.T(lang, f.label), Type: f.typ}
	}
	return page
}
