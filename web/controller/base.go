// Package controller holds the gin handlers of the web app: landing, auth,
// prediction, history and health.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/web/locale"
	"github.com/resalelab/carprice/web/session"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin lets only logged-in sessions through. Anyone else gets the
// flash named by flashKey and a redirect to the login page; the handlers
// behind it never run.
func (a *BaseController) checkLogin(flashKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IsLogin(c) {
			c.Next()
			return
		}
		addFlash(c, session.Warning, flashKey)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// I18nWeb localizes name for the language of the current request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(locale.FromContext(c), name, params...)
}

// I18nWebCount localizes a plural message for the current request.
func I18nWebCount(c *gin.Context, name string, count int64) string {
	return locale.I18nCount(locale.FromContext(c), name, count)
}

func addFlash(c *gin.Context, category string, key string) {
	if err := session.AddFlash(c, category, I18nWeb(c, key)); err != nil {
		logger.Warning("unable to save flash: ", err)
	}
}
