package escrow

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BalanceReader is satisfied by both Journal and MemoryJournal.
type BalanceReader interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
}

type Handler struct {
	journal BalanceReader
}

func Register(rg *gin.RouterGroup, journal BalanceReader) {
	h := &Handler{journal: journal}

	rg.GET("/balance", h.balance)
}

func (h *Handler) balance(c *gin.Context) {
	balance, err := h.journal.Balance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to read escrow balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "balance": balance})
}
