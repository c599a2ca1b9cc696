package receipts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/heritage-esg/escrow-backend/internal/api/http/middleware"
)

type Handler struct {
	registry Registry
}

func Register(rg *gin.RouterGroup, registry Registry) {
	h := &Handler{registry: registry}

	rg.GET("/:id", h.get)
	rg.POST("/:id/transfer", h.transfer)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to get receipt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "receipt": rec})
}

type transferReq struct {
	To string `json:"to"`
}

func (h *Handler) transfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "caller address required"})
		return
	}

	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.To) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.registry.Transfer(c.Request.Context(), id, caller, strings.TrimSpace(req.To))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true, "project_id": id, "owner": req.To})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to transfer receipt"})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}
