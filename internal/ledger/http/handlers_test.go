package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritage-esg/escrow-backend/internal/api/http/middleware"
	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/events"
	"github.com/heritage-esg/escrow-backend/internal/ledger/repository"
	"github.com/heritage-esg/escrow-backend/internal/ledger/service"
	"github.com/heritage-esg/escrow-backend/internal/payments"
	"github.com/heritage-esg/escrow-backend/internal/receipts"
	"github.com/heritage-esg/escrow-backend/internal/roles"
)

const (
	bankAddr     = "0xbank"
	heritageAddr = "0xheritage"
	smeAddr      = "0xsme"
)

type roleSet map[roles.Role][]string

func (rs roleSet) HasRole(ctx context.Context, role roles.Role, address string) (bool, error) {
	for _, a := range rs[role] {
		if a == address {
			return true, nil
		}
	}
	return false, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore(escrow.NewMemoryJournal(), receipts.NewMemory())
	svc := service.New(store, roleSet{
		roles.RoleBank:     {bankAddr},
		roles.RoleHeritage: {heritageAddr},
		roles.RoleSME:      {smeAddr},
	}, payments.NewMemoryGateway(), events.Noop{})

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Caller())
	Register(api.Group("/projects"), svc)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Address", caller)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProject(t *testing.T, r *gin.Engine) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", heritageAddr, gin.H{
		"name":               "Ancient Temple",
		"funding_goal":       "1.0",
		"heritage_recipient": heritageAddr,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Project struct {
			ID int64 `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Project.ID
}

func TestCreateProjectHandler(t *testing.T) {
	r := setupRouter(t)

	t.Run("created", func(t *testing.T) {
		id := createProject(t, r)
		assert.Equal(t, int64(1), id)
	})

	t.Run("missing caller is 401", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects", "", gin.H{
			"name": "X", "funding_goal": "1", "heritage_recipient": heritageAddr,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-heritage caller is 403", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects", smeAddr, gin.H{
			"name": "X", "funding_goal": "1", "heritage_recipient": smeAddr,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "HERITAGE")
	})

	t.Run("zero goal is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects", heritageAddr, gin.H{
			"name": "X", "funding_goal": "0", "heritage_recipient": heritageAddr,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unparseable goal is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects", heritageAddr, gin.H{
			"name": "X", "funding_goal": "one", "heritage_recipient": heritageAddr,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFundProjectHandler(t *testing.T) {
	r := setupRouter(t)
	createProject(t, r)

	t.Run("wrong amount is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", smeAddr, gin.H{"amount": "0.5"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("funded", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", smeAddr, gin.H{"amount": "1.0"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"FUNDED"`)
	})

	t.Run("second funding is 409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", smeAddr, gin.H{"amount": "1.0"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown project is 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/99/fund", smeAddr, gin.H{"amount": "1.0"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLifecycleHandlers(t *testing.T) {
	r := setupRouter(t)
	createProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", smeAddr, gin.H{"amount": "1.0"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("evidence by outsider is 403", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/evidence", smeAddr, gin.H{"evidence_hash": "0xbeef"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("evidence by recipient", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/evidence", heritageAddr, gin.H{"evidence_hash": "0xbeef"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "0xbeef")
	})

	t.Run("approve by non-bank is 403", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/approve", smeAddr, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "BANK")
	})

	t.Run("approve by bank completes", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/approve", bankAddr, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"COMPLETED"`)
	})

	t.Run("second approve is 409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/approve", bankAddr, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("query shows final record", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"COMPLETED"`)
		assert.Contains(t, w.Body.String(), smeAddr)
	})

	t.Run("list exposes next project id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"next_project_id":2`)
	})
}
