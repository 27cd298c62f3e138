package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dedupgate/deduplication"
	"dedupgate/types"
)

// CorpusController serves corpus maintenance endpoints.
type CorpusController struct {
	Dedup *deduplication.Deduplicator
}

// RegisterRoutes registers corpus service endpoints.
func (cc *CorpusController) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/corpus")
	g.POST("/add", cc.handleAdd)
	g.GET("/count", cc.handleCount)
	g.DELETE("/clear", cc.handleClear)
}

// AddCustomerRequest represents the request to index a customer directly.
type AddCustomerRequest struct {
	Customer *types.CustomerRecord `json:"customer" binding:"required"`
}

// handleAdd indexes a customer record, bypassing the duplicate check.
func (cc *CorpusController) handleAdd(c *gin.Context) {
	var req AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.Dedup.AddCustomer(c.Request.Context(), req.Customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add customer: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "added", "id": req.Customer.ID})
}

// handleCount returns the number of records in the corpus.
func (cc *CorpusController) handleCount(c *gin.Context) {
	count, err := cc.Dedup.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count corpus: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// handleClear removes every record from the corpus.
func (cc *CorpusController) handleClear(c *gin.Context) {
	if err := cc.Dedup.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear corpus: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
