package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/interface/httperr"
	"github.com/LeeyaD/phonebook-server/internal/interface/middleware"
	"github.com/LeeyaD/phonebook-server/pkg/response"
	"github.com/LeeyaD/phonebook-server/pkg/validation"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

func (h *ContactHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *ContactHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *ContactHandler) Create(c *gin.Context) {
	uc, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Write(c, h.Logger, application.ErrMissingToken)
		return
	}
	var in application.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badPayload(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), uc, in)
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, out)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var patch application.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badPayload(c, err)
		return
	}
	var caller *application.UserContext
	if uc, ok := middleware.CurrentUser(c); ok {
		caller = &uc
	}
	out, err := h.Svc.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	uc, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Write(c, h.Logger, application.ErrMissingToken)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uc, c.Param("id")); err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// Search handles GET /persons/search?q=<text>&size=<n>.
func (h *ContactHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	out, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		httperr.Write(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *ContactHandler) badPayload(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	httperr.Write(c, h.Logger, application.ErrInvalidPayload.WithDetails(details).WithCause(err))
}
