package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/LeeyaD/phonebook-server/internal/container"
	"github.com/LeeyaD/phonebook-server/internal/interface/middleware"
	"github.com/LeeyaD/phonebook-server/pkg/response"
)

// NewEngine builds the gin engine with global middleware and every module
// wired from the container.
func NewEngine() *gin.Engine {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	r := gin.New()
	proxies := cfg.TrustedProxies()
	if err := r.SetTrustedProxies(proxies); err != nil {
		logger.WithError(err).Warn("invalid TRUSTED_PROXIES; trusting no proxy")
		proxies = nil
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP(proxies))
	r.Use(middleware.Metrics())

	origins := cfg.CORSOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowAllOrigins:  len(origins) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "unknown endpoint")
	})

	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}
