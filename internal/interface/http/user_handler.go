package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/interface/httperr"
	"github.com/LeeyaD/phonebook-server/pkg/response"
	"github.com/LeeyaD/phonebook-server/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.Write(c, h.Logger, application.ErrInvalidPayload.WithDetails(validation.ToDetails(err)))
		return
	}
	out, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, out)
}

func (h *UserHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.Write(c, h.Logger, application.ErrInvalidPayload.WithDetails(validation.ToDetails(err)))
		return
	}
	out, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *UserHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}
