package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeeyaD/phonebook-server/internal/container"
	handlers "github.com/LeeyaD/phonebook-server/internal/interface/http"
	"github.com/LeeyaD/phonebook-server/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)           // 10 req/min per IP
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil) // 5 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.GET("/users", m.Handler.List)
}
