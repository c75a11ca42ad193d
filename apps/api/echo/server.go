package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/core/course"
	"github.com/trezcool/campus/core/messaging"
	"github.com/trezcool/campus/core/quiz"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DB             core.DB
		Tokens         core.TokenStore
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc       *user.Service
		StudentSvc    *student.Service
		TeacherSvc    *teacher.Service
		CourseSvc     *course.Service
		AssignmentSvc *assignment.Service
		QuizSvc       *quiz.Service
		AttendanceSvc *attendance.Service
		MessagingSvc  *messaging.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}

	// routeGuards are the middleware chains of the access groups; public routes take none.
	routeGuards struct {
		authed  []echo.MiddlewareFunc // any authenticated user
		student []echo.MiddlewareFunc
		teacher []echo.MiddlewareFunc
		admin   []echo.MiddlewareFunc
	}

	appValidator struct {
		validate   *validator.Validate
		translator ut.Translator
	}
)

func (v appValidator) Validate(i interface{}) error {
	return core.ValidateStruct(v.validate, v.translator, i)
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(cookieTokenMiddleware(conf.Server.SessionCookie))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Validator = appValidator{validate: s.deps.Validate, translator: s.deps.Translator}
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/healthz", s.healthz)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authed := []echo.MiddlewareFunc{
		middleware.JWTWithConfig(newJWTConfig(conf)),
		revocationMiddleware(s.deps.Tokens),
	}
	guards := routeGuards{
		authed:  authed,
		student: append(authed[:len(authed):len(authed)], roleMiddleware(user.RoleStudent)),
		teacher: append(authed[:len(authed):len(authed)], roleMiddleware(user.RoleTeacher)),
		admin:   append(authed[:len(authed):len(authed)], roleMiddleware()),
	}

	v1 := s.app.Group("/v1")
	registerAuthAPI(v1, guards, conf, s.deps.UserSvc, s.deps.Tokens)
	registerUserAPI(v1, guards, s.deps.UserSvc)
	registerStudentAPI(v1, guards, s.deps.StudentSvc)
	registerTeacherAPI(v1, guards, s.deps.TeacherSvc)
	registerCourseAPI(v1, guards, s.deps.CourseSvc)
	registerAssignmentAPI(v1, guards, s.deps.AssignmentSvc)
	registerQuizAPI(v1, guards, s.deps.QuizSvc)
	registerAttendanceAPI(v1, guards, s.deps.AttendanceSvc)
	registerMessagingAPI(v1, guards, s.deps.MessagingSvc)
}

// Start listens until the server is shut down; any other failure is sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the process to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Welcome to the Campus API!"})
}

func (s *Server) healthz(ctx echo.Context) error {
	if err := s.deps.DB.Ping(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
