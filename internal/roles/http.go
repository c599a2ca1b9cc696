package roles

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

// Register mounts the role registry routes. Grant and revoke must sit behind
// the admin key middleware; the lookup route is public.
func Register(rg *gin.RouterGroup, admin gin.HandlerFunc, repo *Repo) {
	h := &Handler{repo: repo}

	rg.POST("/grant", admin, h.grant)
	rg.POST("/revoke", admin, h.revoke)
	rg.GET("/:address", h.list)
}

type membershipReq struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}

func (h *Handler) grant(c *gin.Context) {
	role, address, ok := h.bindMembership(c)
	if !ok {
		return
	}

	if err := h.repo.Grant(c.Request.Context(), role, address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to grant role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "role": role, "address": address})
}

func (h *Handler) revoke(c *gin.Context) {
	role, address, ok := h.bindMembership(c)
	if !ok {
		return
	}

	if err := h.repo.Revoke(c.Request.Context(), role, address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to revoke role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "role": role, "address": address})
}

func (h *Handler) list(c *gin.Context) {
	address := c.Param("address")

	held, err := h.repo.RolesOf(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list roles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "address": address, "roles": held})
}

func (h *Handler) bindMembership(c *gin.Context) (Role, string, bool) {
	var req membershipReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return "", "", false
	}

	role, err := Parse(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return "", "", false
	}

	return role, strings.TrimSpace(req.Address), true
}
