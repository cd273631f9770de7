package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/LeeyaD/phonebook-server/internal/interface/http"
)

// TestingModule is mounted only when APP_ENV=test.
type TestingModule struct {
	Handler *handlers.TestingHandler
}

func NewTestingModule(h *handlers.TestingHandler) *TestingModule {
	return &TestingModule{Handler: h}
}

func (m *TestingModule) Register(rg *gin.RouterGroup) {
	rg.POST("/testing/reset", m.Handler.Reset)
}
