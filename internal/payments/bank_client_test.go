package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankClient_Transfer(t *testing.T) {
	amount := decimal.RequireFromString("1.0")

	t.Run("successful transfer", func(t *testing.T) {
		var got transferRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/transfers", r.URL.Path)
			assert.Equal(t, "ref-1", r.Header.Get("Idempotency-Key"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(transferResponse{Status: "accepted"})
		}))
		defer srv.Close()

		client := NewBankClient(srv.URL, "test-key")
		err := client.Transfer(context.Background(), "acct-heritage", amount, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, "acct-heritage", got.To)
		assert.Equal(t, "1", got.Amount)
	})

	t.Run("bank rejection surfaces ErrTransferFailed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(transferResponse{Error: "account closed"})
		}))
		defer srv.Close()

		client := NewBankClient(srv.URL, "")
		err := client.Transfer(context.Background(), "acct-closed", amount, "ref-2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransferFailed)
		assert.Contains(t, err.Error(), "account closed")
	})

	t.Run("server error surfaces ErrTransferFailed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewBankClient(srv.URL, "")
		err := client.Transfer(context.Background(), "acct", amount, "ref-3")
		assert.ErrorIs(t, err, ErrTransferFailed)
	})

	t.Run("unreachable bank surfaces ErrTransferFailed", func(t *testing.T) {
		client := NewBankClient("http://127.0.0.1:1", "")
		err := client.Transfer(context.Background(), "acct", amount, "ref-4")
		assert.ErrorIs(t, err, ErrTransferFailed)
	})
}

func TestMemoryGateway(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()
	amount := decimal.RequireFromString("2.5")

	require.NoError(t, g.Transfer(ctx, "acct-a", amount, "ref-a"))
	assert.True(t, g.BalanceOf("acct-a").Equal(amount))

	g.RejectTransfersTo("acct-b")
	err := g.Transfer(ctx, "acct-b", amount, "ref-b")
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.True(t, g.BalanceOf("acct-b").IsZero())

	require.Len(t, g.Transfers(), 1)
	assert.Equal(t, "ref-a", g.Transfers()[0].Reference)
}
