// Package api serves the local course catalogue over HTTP and fetches it
// from another instance.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"golestoon/pkg/course"
)

// Source provides the synced catalogue.
type Source interface {
	LoadOfferings() (available, unavailable course.Offerings, err error)
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	Log            zerolog.Logger
	Debug          bool
}

// NewRouter builds the read-only catalogue API.
func NewRouter(src Source, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", headerRequestID}
	corsConfig.ExposeHeaders = []string{headerRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(requestID())
	router.Use(requestLogger(opts.Log))

	h := &catalogHandler{src: src}
	router.GET("/healthz", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/courses", h.List)
	router.GET("/courses/:key", h.Get)
	router.GET("/majors", h.Majors)
	router.GET("/offerings", h.Offerings)
	return router
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(contextKeyRequestID)).
			Msg("request")
	}
}
