package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
	uploadsvc "github.com/nvthanh/eduleave/services/upload"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		UserSvc     user.Service
		RequestSvc  request.Service
		SettingsSvc settings.Service
		UploadSvc   uploadsvc.Service
		Hub         *Hub
		Logger      core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = appHTTPErrorHandler
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)
	s.app.Static("/uploads", core.Conf.Upload.Dir)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerRequestAPI(v1, jwt, s.opts.RequestSvc, s.opts.UserSvc, s.opts.SettingsSvc, s.opts.Hub)
	registerSettingsAPI(v1, jwt, s.opts.SettingsSvc, s.opts.UserSvc, s.opts.UploadSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
