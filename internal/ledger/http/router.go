package http

import (
	"github.com/gin-gonic/gin"

	"github.com/heritage-esg/escrow-backend/internal/ledger/service"
)

// Register mounts the project ledger routes.
func Register(rg *gin.RouterGroup, svc *service.Service) {
	h := &Handler{svc: svc}

	rg.POST("", h.createProject)
	rg.GET("", h.listProjects)
	rg.GET("/:id", h.getProject)
	rg.POST("/:id/fund", h.fundProject)
	rg.POST("/:id/evidence", h.submitEvidence)
	rg.POST("/:id/approve", h.approveAndDisburse)
}
