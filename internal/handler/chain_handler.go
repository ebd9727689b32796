package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mchain/internal/pkg/response"
	"github.com/xxxsen/mchain/internal/service"
)

type ChainHandler struct {
	learner     *service.ChainLearner
	synthesizer *service.TextSynthesizer
	stats       *service.StatsService
}

func NewChainHandler(learner *service.ChainLearner, synthesizer *service.TextSynthesizer, stats *service.StatsService) *ChainHandler {
	return &ChainHandler{learner: learner, synthesizer: synthesizer, stats: stats}
}

type inputRequest struct {
	Input string `json:"input" binding:"required,min=1,max=2000"`
}

type generateRequest struct {
	Start     *string `json:"start" binding:"omitempty,min=1,max=2000"`
	MaxLength *int    `json:"max_length" binding:"omitempty,min=1,max=2000"`
}

func (h *ChainHandler) Input(c *gin.Context) {
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, invalidRequest(err))
		return
	}
	if err := h.learner.Ingest(c.Request.Context(), req.Input); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *ChainHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, invalidRequest(err))
		return
	}
	text, err := h.synthesizer.Generate(c.Request.Context(), req.Start, req.MaxLength)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"text": text})
}

func (h *ChainHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}
