// Package locale loads the embedded translation files and gives each
// request a localizer picked from its lang cookie or Accept-Language header.
package locale

import (
	"io/fs"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/resalelab/carprice/logger"
)

const localizerKey = "localizer"

var (
	i18nBundle       *i18n.Bundle
	defaultLocalizer *i18n.Localizer
)

// InitLocalizer parses every file under translation/ in i18nFS.
func InitLocalizer(i18nFS fs.FS) error {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, bundle); err != nil {
		return err
	}

	i18nBundle = bundle
	defaultLocalizer = i18n.NewLocalizer(bundle, "en-US")
	return nil
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	sep := "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) != 2 {
			continue
		}
		templateData[parts[0]] = parts[1]
	}
	return templateData
}

// I18n localizes key with the "name==value" params. It falls back to the
// default language and finally to the key itself.
func I18n(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		localizer = defaultLocalizer
	}
	if localizer == nil {
		return key
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Warningf("failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

// I18nCount localizes a message with plural forms; count picks the form and
// is available to the template as .Count.
func I18nCount(localizer *i18n.Localizer, key string, count int64) string {
	if localizer == nil {
		localizer = defaultLocalizer
	}
	if localizer == nil {
		return key
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		logger.Warningf("failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

// Default returns the en-US localizer used by templates.
func Default() *i18n.Localizer {
	return defaultLocalizer
}

func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if i18nBundle == nil {
			c.Next()
			return
		}
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		}
		c.Set(localizerKey, i18n.NewLocalizer(i18nBundle, lang, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// FromContext returns the request localizer, or nil outside the middleware.
func FromContext(c *gin.Context) *i18n.Localizer {
	if v, ok := c.Get(localizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return l
		}
	}
	return nil
}

func parseTranslationFiles(i18nFS fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}

			_, err = bundle.ParseMessageFileBytes(data, path)
			return err
		})
}
