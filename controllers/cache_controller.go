package controllers

import (
	"net/http"

	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

type CacheController struct {
	listing *services.PostListingCache
}

func NewCacheController(listing *services.PostListingCache) *CacheController {
	return &CacheController{listing: listing}
}

// GetStats reports the shared listing cache counters.
func (cc *CacheController) GetStats(c *gin.Context) {
	stats, err := cc.listing.Stats(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (cc *CacheController) ResetStats(c *gin.Context) {
	if err := cc.listing.ResetStats(c.Request.Context()); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
