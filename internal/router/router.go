package router // package router composes the HTTP server out of its parts

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/projectnexus/nexus-backend/internal/config"
    "github.com/projectnexus/nexus-backend/internal/handler"
    "github.com/projectnexus/nexus-backend/internal/middleware"
    "github.com/projectnexus/nexus-backend/internal/model"
    "github.com/projectnexus/nexus-backend/internal/queue"
    "github.com/projectnexus/nexus-backend/internal/repository"
    "github.com/projectnexus/nexus-backend/internal/utils"
)

// New builds a fully wired Echo instance from configuration and external
// resources.  Nothing is registered at package level: tests construct their
// own server with their own config, and two instances never share state.
// rdb and events may be nil; rate limiting and event publishing then
// silently disable themselves.
func New(cfg config.Config, db *sql.DB, rdb *redis.Client, events *queue.Publisher) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.HTTPErrorHandler = errorHandler(cfg.Env)

    e.Use(echomw.Recover())
    e.Use(echomw.Secure())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:     []string{cfg.CORSOrigin},
        AllowCredentials: true,
    }))
    e.Use(echomw.BodyLimit("10M"))
    if cfg.Env != "test" {
        e.Use(echomw.Logger())
    }

    issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTExpire, cfg.JWTRefreshExpire)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    authH := handler.NewAuthHandler(cfg, users, tokens, issuer, events)
    healthH := handler.NewHealthHandler(cfg.Env)
    adminH := handler.NewAdminHandler(users)

    limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
    authed := middleware.JWTAuth(issuer)

    e.GET("/health", healthH.Health)
    e.GET("/api", healthH.APIIndex)

    auth := e.Group("/api/auth")
    // The credential endpoints are the brute-force surface; only they get
    // the limiter.
    auth.POST("/register", authH.Register, limiter)
    auth.POST("/login", authH.Login, limiter)
    auth.POST("/refresh", authH.Refresh)
    auth.GET("/profile", authH.Profile, authed)
    auth.POST("/logout", authH.Logout, authed)

    admin := e.Group("/api/admin", authed, middleware.RequireRole(model.RoleAdmin))
    admin.GET("/users", adminH.ListUsers)

    return e
}

// errorHandler emits the standard error envelope for anything that escapes
// the handlers: {success:false, message, ...}.  Unmatched routes get the
// request path echoed back; unexpected errors are logged and reported as a
// generic 500, with the underlying detail included only in development.
func errorHandler(env string) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }

        code := http.StatusInternalServerError
        msg := "Internal Server Error"
        var he *echo.HTTPError
        if errors.As(err, &he) {
            code = he.Code
            if s, ok := he.Message.(string); ok {
                msg = s
            }
        }

        if code == http.StatusNotFound {
            _ = c.JSON(code, echo.Map{
                "success": false,
                "message": "Route not found",
                "path":    c.Request().URL.Path,
            })
            return
        }

        body := echo.Map{"success": false, "message": msg}
        if code >= http.StatusInternalServerError {
            logrus.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
            body["message"] = "Internal Server Error"
            if env == "development" {
                body["error"] = err.Error()
            }
        }
        _ = c.JSON(code, body)
    }
}
