// Package i18n looks up the strings rendered by the server in English or Bahasa Melayu.
package i18n

import (
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ms"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core/profile"
)

// locales maps a profile.Language to its CLDR locale.
var locales = map[profile.Language]string{
	profile.LanguageEnglish: "en",
	profile.LanguageMalay:   "ms",
}

type Translator struct {
	uni *ut.UniversalTranslator
}

// New registers the translation table on a universal translator.
func New() (*Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ms.New())

	enT, _ := uni.GetTranslator(locales[profile.LanguageEnglish])
	bmT, _ := uni.GetTranslator(locales[profile.LanguageMalay])
	for key, tr := range translations {
		if err := enT.Add(key, tr.en, false); err != nil {
			return nil, errors.Wrapf(err, "adding en translation %q", key)
		}
		if err := bmT.Add(key, tr.bm, false); err != nil {
			return nil, errors.Wrapf(err, "adding bm translation %q", key)
		}
	}
	return &Translator{uni: uni}, nil
}

// T returns the translation of key in lang, or key itself when there is none.
func (t *Translator) T(lang profile.Language, key string) string {
	loc, ok := locales[lang]
	if !ok {
		loc = locales[profile.DefaultLanguage]
	}
	trans, found := t.uni.GetTranslator(loc)
	if !found {
		return key
	}
	s, err := trans.T(key)
	if err != nil || s == "" {
		return key
	}
	return s
}
