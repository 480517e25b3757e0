// Package session keeps the logged-in username and pending flash messages
// in the gin-contrib session of the request.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "carprice"
	loginUser  = "LOGIN_USER"
)

// Flash categories.
const (
	Success = "success"
	Danger  = "danger"
	Warning = "warning"
	Info    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
	// flashes are stored as []any
	gob.Register([]any{})
}

func SetLoginUser(c *gin.Context, username string) error {
	s := sessions.Default(c)
	s.Set(loginUser, username)
	return s.Save()
}

// SetMaxAge sets the cookie lifetime in seconds. Secure follows the
// transport of the current request.
func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return s.Save()
}

// GetLoginUser returns the logged-in username, or "" when there is none.
func GetLoginUser(c *gin.Context) string {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if username, ok := obj.(string); ok {
			return username
		}
	}
	return ""
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != ""
}

// ClearSession drops every value of the session. The cookie itself is kept
// so that a flash added afterwards still reaches the client.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

func AddFlash(c *gin.Context, category string, msg string) error {
	s := sessions.Default(c)
	s.AddFlash(Flash{Category: category, Message: msg})
	return s.Save()
}

// Flashes returns and consumes the pending flash messages.
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		switch v := f.(type) {
		case Flash:
			flashes = append(flashes, v)
		case string:
			flashes = append(flashes, Flash{Category: Info, Message: v})
		}
	}
	_ = s.Save()
	return flashes
}
