package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeeyaD/phonebook-server/internal/container"
	handlers "github.com/LeeyaD/phonebook-server/internal/interface/http"
	"github.com/LeeyaD/phonebook-server/internal/interface/middleware"
)

// ContactModule serves /api/persons. Reads and updates accept anonymous
// callers; create and delete require a token.
type ContactModule struct {
	Handler *handlers.ContactHandler
	Auth    *middleware.Auth
}

func NewContactModule(h *handlers.ContactHandler, auth *middleware.Auth) *ContactModule {
	return &ContactModule{Handler: h, Auth: auth}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	writeLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil)

	optional := m.Auth.Optional()
	required := m.Auth.Require()

	g := rg.Group("/persons")
	{
		g.GET("", optional, m.Handler.List)
		g.GET("/search", optional, searchLimiter, m.Handler.Search)
		g.GET("/:id", optional, m.Handler.Get)
		g.POST("", required, writeLimiter, m.Handler.Create)
		g.PUT("/:id", optional, writeLimiter, m.Handler.Update)
		g.DELETE("/:id", required, writeLimiter, m.Handler.Delete)
	}
}
