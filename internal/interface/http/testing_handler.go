package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/interface/httperr"
	"github.com/LeeyaD/phonebook-server/pkg/response"
)

type TestingHandler struct {
	Svc    *application.ResetService
	Logger *logrus.Logger
}

func NewTestingHandler(svc *application.ResetService, logger *logrus.Logger) *TestingHandler {
	return &TestingHandler{Svc: svc, Logger: logger}
}

func (h *TestingHandler) Reset(c *gin.Context) {
	if err := h.Svc.Reset(c.Request.Context()); err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	h.Logger.Warn("store reset")
	response.NoContent(c)
}
