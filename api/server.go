package api

import (
	"github.com/gin-gonic/gin"

	"dedupgate/deduplication"
)

// NewRouter constructs a Gin engine with registered routes. The deduplicator
// is shared across requests; it is constructed once at startup, not per call.
func NewRouter(dedup *deduplication.Deduplicator) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	rc := &RegistrationController{Dedup: dedup}
	rc.RegisterRoutes(r)

	cc := &CorpusController{Dedup: dedup}
	cc.RegisterRoutes(r)

	RegisterHealthRoutes(r)
	return r
}
