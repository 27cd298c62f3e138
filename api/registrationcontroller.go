package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dedupgate/deduplication"
	"dedupgate/types"
)

// RegistrationController serves the duplicate check and registration
// endpoints.
type RegistrationController struct {
	Dedup *deduplication.Deduplicator
}

// RegisterRoutes registers registration service endpoints.
func (rc *RegistrationController) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/registration")
	g.POST("/check", rc.handleCheck)
	g.POST("/register", rc.handleRegister)
}

// CheckRequest represents a duplicate check request. The matching parameter
// fields are optional overrides; zero values use the server defaults.
type CheckRequest struct {
	Registration      *types.RegistrationInput `json:"registration" binding:"required"`
	TopK              int                      `json:"top_k"`
	Method            string                   `json:"method"`
	FieldThreshold    float64                  `json:"field_threshold"`
	DecisionThreshold float64                  `json:"decision_threshold"`
}

// RegisterResponse represents the outcome of a register call.
type RegisterResponse struct {
	Status   string                `json:"status"` // "registered", "duplicate"
	Check    *types.CheckResult    `json:"check,omitempty"`
	Customer *types.CustomerRecord `json:"customer,omitempty"`
}

func (req *CheckRequest) options() (deduplication.CheckOptions, error) {
	method, err := deduplication.ParseMethod(req.Method)
	if err != nil {
		return deduplication.CheckOptions{}, err
	}
	return deduplication.CheckOptions{
		TopK:              req.TopK,
		Method:            method,
		FieldThreshold:    req.FieldThreshold,
		DecisionThreshold: req.DecisionThreshold,
	}, nil
}

// handleCheck runs the duplicate check without registering anyone.
func (rc *RegistrationController) handleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, err := req.options()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rc.Dedup.CheckRegistration(c.Request.Context(), req.Registration, opts)
	if err != nil {
		respondCheckError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleRegister checks the registration and admits the customer when no
// duplicate is found.
func (rc *RegistrationController) handleRegister(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, err := req.options()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, customer, err := rc.Dedup.ProcessRegistration(c.Request.Context(), req.Registration, opts)
	if err != nil {
		respondCheckError(c, err)
		return
	}

	response := RegisterResponse{Check: result, Customer: customer}
	if result.IsDuplicate {
		response.Status = "duplicate"
	} else {
		response.Status = "registered"
	}
	c.JSON(http.StatusOK, response)
}

// respondCheckError maps engine errors to HTTP statuses: invalid input is the
// caller's fault, a retrieval failure is the collaborator's.
func respondCheckError(c *gin.Context, err error) {
	var retrievalErr *deduplication.RetrievalError
	switch {
	case errors.Is(err, deduplication.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "at least one registration field must be provided"})
	case errors.As(err, &retrievalErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "candidate retrieval failed: " + retrievalErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
