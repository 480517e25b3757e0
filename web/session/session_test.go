package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))
	r.Use(sessions.Sessions(CookieName, store))

	r.GET("/login/:name", func(c *gin.Context) {
		_ = SetLoginUser(c, c.Param("name"))
		_ = AddFlash(c, Success, "Login successful!")
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetLoginUser(c), "login": IsLogin(c)})
	})
	r.GET("/flashes", func(c *gin.Context) {
		c.JSON(http.StatusOK, Flashes(c))
	})
	r.GET("/logout", func(c *gin.Context) {
		_ = ClearSession(c)
		_ = AddFlash(c, Info, "You have been logged out.")
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(t *testing.T, r *gin.Engine, path string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		cookies = got
	}
	return w, cookies
}

func TestLoginUserRoundTrip(t *testing.T) {
	r := newRouter()

	w, cookies := do(t, r, "/whoami", nil)
	assert.JSONEq(t, `{"user":"","login":false}`, w.Body.String())

	_, cookies = do(t, r, "/login/alice", cookies)
	require.NotEmpty(t, cookies)
	assert.Equal(t, CookieName, cookies[0].Name)

	w, _ = do(t, r, "/whoami", cookies)
	assert.JSONEq(t, `{"user":"alice","login":true}`, w.Body.String())
}

func TestFlashesAreConsumedOnce(t *testing.T) {
	r := newRouter()

	_, cookies := do(t, r, "/login/alice", nil)

	w, cookies := do(t, r, "/flashes", cookies)
	assert.JSONEq(t, `[{"Category":"success","Message":"Login successful!"}]`, w.Body.String())

	w, _ = do(t, r, "/flashes", cookies)
	assert.Equal(t, "null", w.Body.String())
}

func TestClearSessionKeepsLaterFlash(t *testing.T) {
	r := newRouter()

	_, cookies := do(t, r, "/login/alice", nil)
	_, cookies = do(t, r, "/flashes", cookies)
	_, cookies = do(t, r, "/logout", cookies)

	w, cookies := do(t, r, "/flashes", cookies)
	assert.JSONEq(t, `[{"Category":"info","Message":"You have been logged out."}]`, w.Body.String())

	w, _ = do(t, r, "/whoami", cookies)
	assert.JSONEq(t, `{"user":"","login":false}`, w.Body.String())
}
