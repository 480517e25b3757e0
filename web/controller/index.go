package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/crypto"
	"github.com/resalelab/carprice/util/metrics"
	"github.com/resalelab/carprice/web/entity"
	"github.com/resalelab/carprice/web/service"
	"github.com/resalelab/carprice/web/session"
)

// IndexController serves the landing page, signup, login and logout.
type IndexController struct {
	BaseController

	userService service.UserService

	sessionMaxAge int
}

// NewIndexController registers the routes on g. sessionMaxAge is in
// seconds; authLimit guards the credential POSTs.
func NewIndexController(g *gin.RouterGroup, sessionMaxAge int, authLimit gin.HandlerFunc) *IndexController {
	a := &IndexController{sessionMaxAge: sessionMaxAge}
	a.initRouter(g, authLimit)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup, authLimit gin.HandlerFunc) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", authLimit, a.login)
	g.GET("/signup", a.signupPage)
	g.POST("/signup", authLimit, a.signup)
	g.GET("/logout", a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	html(c, http.StatusOK, "landing.html", "pages.landing.title", nil)
}

func (a *IndexController) loginPage(c *gin.Context) {
	html(c, http.StatusOK, "login.html", "pages.login.title", nil)
}

func (a *IndexController) signupPage(c *gin.Context) {
	html(c, http.StatusOK, "signup.html", "pages.signup.title", nil)
}

func (a *IndexController) login(c *gin.Context) {
	var form entity.AuthForm
	_ = c.ShouldBind(&form)

	ok, err := a.userService.Verify(form.Username, form.Password)
	if err != nil {
		metrics.IncLoginAttempt("error")
		logger.Error("login lookup failed: ", err)
		addFlash(c, session.Danger, "flash.serverError")
		html(c, http.StatusOK, "login.html", "pages.login.title", gin.H{"form_username": form.Username})
		return
	}
	if !ok {
		metrics.IncLoginAttempt("failure")
		logger.Warningf("failed login for %q from %s", form.Username, getRemoteIp(c))
		addFlash(c, session.Danger, "flash.loginFailed")
		html(c, http.StatusOK, "login.html", "pages.login.title", gin.H{"form_username": form.Username})
		return
	}

	// a fresh session on every login
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to reset session: ", err)
	}
	if err := session.SetMaxAge(c, a.sessionMaxAge); err != nil {
		logger.Warning("unable to set session max age: ", err)
	}
	if err := session.SetLoginUser(c, form.Username); err != nil {
		metrics.IncLoginAttempt("error")
		logger.Error("unable to save session: ", err)
		html(c, http.StatusInternalServerError, "login.html", "pages.login.title", gin.H{"form_username": form.Username})
		return
	}

	metrics.IncLoginAttempt("success")
	logger.Infof("%s logged in from %s", form.Username, getRemoteIp(c))
	addFlash(c, session.Success, "flash.loginSuccess")
	c.Redirect(http.StatusFound, "/predict_page")
}

func (a *IndexController) signup(c *gin.Context) {
	var form entity.AuthForm
	_ = c.ShouldBind(&form)

	err := a.userService.Create(form.Username, form.Password)
	if err == nil {
		metrics.IncSignup("created")
		addFlash(c, session.Success, "flash.signupSuccess")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var key string
	switch {
	case errors.Is(err, service.ErrUserExists):
		metrics.IncSignup("exists")
		key = "flash.usernameTaken"
	case errors.Is(err, service.ErrEmptyCredentials):
		metrics.IncSignup("invalid")
		key = "flash.emptyCredentials"
	case errors.Is(err, service.ErrInvalidUsername):
		metrics.IncSignup("invalid")
		key = "flash.usernameTooLong"
	case errors.Is(err, crypto.ErrPasswordTooLong):
		metrics.IncSignup("invalid")
		key = "flash.passwordTooLong"
	default:
		metrics.IncSignup("error")
		logger.Error("signup failed: ", err)
		key = "flash.serverError"
	}
	addFlash(c, session.Danger, key)
	html(c, http.StatusOK, "signup.html", "pages.signup.title", gin.H{"form_username": form.Username})
}

func (a *IndexController) logout(c *gin.Context) {
	if username := session.GetLoginUser(c); username != "" {
		logger.Infof("%s logged out", username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session: ", err)
	}
	addFlash(c, session.Info, "flash.loggedOut")
	c.Redirect(http.StatusFound, "/")
}
