package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Chain *ChainHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/input", deps.Chain.Input)
	api.POST("/generate", deps.Chain.Generate)
	api.GET("/stats", deps.Chain.Stats)
}
