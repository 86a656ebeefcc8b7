package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/year-3-projects-cti/baskIT/internal/recommend"
)

const featuredLimit = 4

type RecommendHandler struct {
	chain *recommend.Chain
}

func NewRecommendHandler(chain *recommend.Chain) *RecommendHandler {
	return &RecommendHandler{chain: chain}
}

func (h *RecommendHandler) Featured(c *gin.Context) {
	picks := h.chain.Featured(c.Request.Context(), recommend.TimeContext{Date: time.Now()}, featuredLimit)
	c.JSON(http.StatusOK, gin.H{"featured": picks})
}
