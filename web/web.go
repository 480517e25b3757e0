// Package web assembles the gin engine, session store, cron jobs and HTTP
// listener of the car price app.
package web

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/hkdf"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/common"
	"github.com/resalelab/carprice/web/cache"
	"github.com/resalelab/carprice/web/controller"
	"github.com/resalelab/carprice/web/job"
	"github.com/resalelab/carprice/web/locale"
	"github.com/resalelab/carprice/web/middleware"
	"github.com/resalelab/carprice/web/network"
	"github.com/resalelab/carprice/web/service"
	"github.com/resalelab/carprice/web/session"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const (
	rateLimitWindow = time.Minute
	maxLogSize      = 10 << 20
	shutdownTimeout = 10 * time.Second
)

// Options is the runtime configuration of a Server.
type Options struct {
	SecretKey      string
	SessionMaxAge  int // minutes
	SessionStore   string
	RedisURL       string
	LoginRateLimit int
	Listen         string
	Port           int
	CertFile       string
	KeyFile        string
}

// OptionsFromEnv reads Options through the config package. It fails when
// SECRET_KEY is missing or weak.
func OptionsFromEnv() (Options, error) {
	var (
		opts Options
		err  error
	)
	if opts.SecretKey, err = config.GetSecretKey(); err != nil {
		return opts, err
	}
	if opts.SessionMaxAge, err = config.GetSessionMaxAge(); err != nil {
		return opts, err
	}
	if opts.SessionStore, err = config.GetSessionStore(); err != nil {
		return opts, err
	}
	if opts.LoginRateLimit, err = config.GetLoginRateLimit(); err != nil {
		return opts, err
	}
	if opts.Port, err = config.GetPort(); err != nil {
		return opts, err
	}
	opts.RedisURL = config.GetRedisURL()
	opts.Listen = config.GetListen()
	opts.CertFile = config.GetCertFile()
	opts.KeyFile = config.GetKeyFile()
	return opts, nil
}

func (o Options) tlsEnabled() bool {
	return o.CertFile != "" && o.KeyFile != ""
}

type Server struct {
	opts Options

	httpServer *http.Server
	listener   net.Listener
	redis      *cache.Conn

	index   *controller.IndexController
	predict *controller.PredictController
	history *controller.HistoryController
	health  *controller.HealthController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{opts: opts, ctx: ctx, cancel: cancel}
}

func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

// sessionKeys derives the cookie signing and encryption keys from the secret.
func sessionKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("carprice session cookie"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err = io.ReadFull(r, hashKey); err != nil {
		return nil, nil, err
	}
	if _, err = io.ReadFull(r, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func (s *Server) initSessionStore() (sessions.Store, error) {
	hashKey, blockKey, err := sessionKeys(s.opts.SecretKey)
	if err != nil {
		return nil, err
	}

	var store sessions.Store
	if s.opts.SessionStore == "redis" {
		if s.redis == nil {
			return nil, fmt.Errorf("redis session store requires REDIS_URL")
		}
		store = cache.NewRedisStore(s.redis.Client, hashKey, blockKey)
	} else {
		store = cookie.NewStore(hashKey, blockKey)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.opts.SessionMaxAge * 60,
		HttpOnly: true,
		Secure:   s.opts.tlsEnabled(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func (s *Server) initLimiter() middleware.Limiter {
	if s.redis != nil {
		return middleware.NewRedisLimiter(s.redis.Client, rateLimitWindow)
	}
	return middleware.NewMemoryLimiter(rateLimitWindow)
}

func (s *Server) connectRedis() error {
	if s.opts.RedisURL == "" || s.redis != nil {
		return nil
	}
	conn, err := cache.Connect(s.ctx, s.opts.RedisURL)
	if err != nil {
		return err
	}
	s.redis = conn
	return nil
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := s.connectRedis(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(), middleware.MetricsMiddleware())
	if config.IsDebug() {
		engine.Use(gin.Logger())
	}
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
	))

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	funcMap := template.FuncMap{
		"i18n": func(key string, params ...string) string {
			return locale.I18n(locale.Default(), key, params...)
		},
		"price":      common.FormatFloat,
		"profitable": service.Profitable,
	}
	engine.SetFuncMap(funcMap)
	tpl, err := s.getHtmlTemplate(funcMap)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)

	store, err := s.initSessionStore()
	if err != nil {
		return nil, err
	}
	engine.Use(sessions.Sessions(session.CookieName, store))
	engine.Use(locale.LocalizerMiddleware())

	authLimit := middleware.RateLimitMiddleware(s.initLimiter(), s.opts.LoginRateLimit)

	g := engine.Group("/")
	s.index = controller.NewIndexController(g, s.opts.SessionMaxAge*60, authLimit)
	s.predict = controller.NewPredictController(g)
	s.history = controller.NewHistoryController(g)
	s.health = controller.NewHealthController(g)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// Handler builds the routed engine without listening. Start uses it too.
func (s *Server) Handler() (http.Handler, error) {
	return s.initRouter()
}

func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@hourly", job.NewCheckpointJob()); err != nil {
		logger.Warning("add checkpoint job: ", err)
	}
	if _, err := s.cron.AddJob("@daily", job.NewClearLogsJob(logger.LogFilePath(), maxLogSize)); err != nil {
		logger.Warning("add clear logs job: ", err)
	}
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.opts.Listen, strconv.Itoa(s.opts.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if s.opts.tlsEnabled() {
		cert, err := tls.LoadX509KeyPair(s.opts.CertFile, s.opts.KeyFile)
		if err != nil {
			_ = listener.Close()
			return fmt.Errorf("load certificates: %w", err)
		}
		cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
		listener = network.NewAutoHttpsListener(listener)
		listener = tls.NewListener(listener, cfg)
		logger.Info("web server running HTTPS on ", listener.Addr())
	} else {
		logger.Info("web server running HTTP on ", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped: ", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop shuts down the HTTP server, cron jobs and the Redis connection.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	} else if s.listener != nil {
		err1 = s.listener.Close()
	}
	if s.redis != nil {
		err2 = s.redis.Close()
		s.redis = nil
	}
	return common.Combine(err1, err2)
}
