package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/heritage-esg/escrow-backend/internal/api/http/middleware"
	"github.com/heritage-esg/escrow-backend/internal/ledger/domain"
	"github.com/heritage-esg/escrow-backend/internal/ledger/service"
	"github.com/heritage-esg/escrow-backend/internal/payments"
	"github.com/heritage-esg/escrow-backend/internal/roles"
)

type Handler struct {
	svc *service.Service
}

func (h *Handler) createProject(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	goal, err := decimal.NewFromString(req.FundingGoal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid funding_goal"})
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), caller, domain.CreateProjectRequest{
		Name:              req.Name,
		FundingGoal:       goal,
		HeritageRecipient: req.HeritageRecipient,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) fundProject(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req fundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid amount"})
		return
	}

	p, err := h.svc.FundProject(c.Request.Context(), caller, id, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) submitEvidence(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req evidenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.SubmitEvidence(c.Request.Context(), caller, id, req.EvidenceHash)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) approveAndDisburse(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.svc.ApproveAndDisburse(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) listProjects(c *gin.Context) {
	list, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := h.svc.NextProjectID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": list, "next_project_id": next})
}

func requireCaller(c *gin.Context) (string, bool) {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "caller address required"})
		return "", false
	}
	return caller, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// respondError maps the ledger error taxonomy onto HTTP statuses. Every
// failure carries the specific error text so callers can render an
// actionable message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roles.ErrUnauthorized), errors.Is(err, domain.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrWrongState):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrBadInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, payments.ErrTransferFailed):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
