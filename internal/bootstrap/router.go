package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/heritage-esg/escrow-backend/internal/api/http"
	"github.com/heritage-esg/escrow-backend/internal/api/http/middleware"
	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/events"
	ledgerhttp "github.com/heritage-esg/escrow-backend/internal/ledger/http"
	"github.com/heritage-esg/escrow-backend/internal/ledger/repository"
	"github.com/heritage-esg/escrow-backend/internal/ledger/service"
	"github.com/heritage-esg/escrow-backend/internal/payments"
	"github.com/heritage-esg/escrow-backend/internal/receipts"
	"github.com/heritage-esg/escrow-backend/internal/roles"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AdminAPIKey    string
	AllowedOrigins []string
	DB             *pgxpool.Pool
	SQL            *sql.DB
	Redis          *redis.Client // nil disables event publishing
	Gateway        payments.Gateway
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) == 1 && dep.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Caller-Address", "X-API-Key", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.Caller())

	var publisher events.Publisher = events.Noop{}
	if dep.Redis != nil {
		publisher = events.NewRedisPublisher(dep.Redis)
	}

	roleRepo := roles.NewRepo(dep.SQL)
	journal := escrow.NewJournal(dep.DB)
	registry := receipts.NewPostgresRegistry(dep.DB)
	store := repository.NewPostgresStore(dep.DB)
	svc := service.New(store, roleRepo, dep.Gateway, publisher)

	roles.Register(api.Group("/roles"), middleware.AdminKey(dep.AdminAPIKey), roleRepo)
	ledgerhttp.Register(api.Group("/projects"), svc)
	receipts.Register(api.Group("/receipts"), registry)
	escrow.Register(api.Group("/escrow"), journal)

	return r
}
