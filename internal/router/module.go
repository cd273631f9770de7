package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes under the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
