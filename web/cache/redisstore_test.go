package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, []byte("0123456789abcdef0123456789abcdef")), mr
}

func newRouter(store sessions.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("carprice", store))
	r.GET("/set", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("user", "alice")
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		v, _ := sessions.Default(c).Get("user").(string)
		c.String(http.StatusOK, v)
	})
	r.GET("/clear", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Options(sessions.Options{Path: "/", MaxAge: -1})
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	r := newRouter(store)

	w := serve(r, "/set")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Len(t, mr.Keys(), 1)

	w = serve(r, "/get", cookies...)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRedisStoreUsesConfiguredMaxAge(t *testing.T) {
	store, mr := newTestStore(t)
	store.Options(sessions.Options{Path: "/", MaxAge: 120, HttpOnly: true})
	r := newRouter(store)

	serve(r, "/set")
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, 120.0, mr.TTL(keys[0]).Seconds())
}

func TestRedisStoreIgnoresForgedCookie(t *testing.T) {
	store, _ := newTestStore(t)
	r := newRouter(store)

	w := serve(r, "/get", &http.Cookie{Name: "carprice", Value: "forged"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRedisStoreExpiredKeyStartsFreshSession(t *testing.T) {
	store, mr := newTestStore(t)
	r := newRouter(store)

	cookies := serve(r, "/set").Result().Cookies()
	mr.FlushAll()

	w := serve(r, "/get", cookies...)
	assert.Empty(t, w.Body.String())
}

func TestRedisStoreDeleteOnNegativeMaxAge(t *testing.T) {
	store, mr := newTestStore(t)
	r := newRouter(store)

	cookies := serve(r, "/set").Result().Cookies()
	require.Len(t, mr.Keys(), 1)

	w := serve(r, "/clear", cookies...)
	assert.Empty(t, mr.Keys())
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestConnectEmbedded(t *testing.T) {
	conn, err := Connect(context.Background(), EmbeddedURL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Client.Set(context.Background(), "k", "v", 0).Err())
	v, err := conn.Client.Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestConnectFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	conn, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer conn.Close()
	assert.NoError(t, conn.Client.Ping(context.Background()).Err())
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://nope")
	assert.Error(t, err)
}
