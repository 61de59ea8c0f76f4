package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/adapters/primary/http/handlers"
	"tenant-provisioning-service/internal/adapters/primary/http/middleware"
	"tenant-provisioning-service/internal/adapters/secondary/kube"
	"tenant-provisioning-service/internal/adapters/secondary/manifest"
	"tenant-provisioning-service/internal/adapters/secondary/postgres"
	"tenant-provisioning-service/internal/adapters/secondary/sizing"
	"tenant-provisioning-service/internal/config"
	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
	"tenant-provisioning-service/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary Adapters (Output Ports)
	tenantRepo := postgres.NewTenantRepository(pool)
	executionRepo := postgres.NewExecutionRepository(pool)
	sizingClient := sizing.NewClient(&cfg.Sizing)
	manifestGen := manifest.NewGenerator()

	// Infrastructure directory and provisioner (optional - based on config)
	var directory output.InfrastructureDirectory
	var runner output.StageRunner
	if cfg.Kubernetes.Enabled {
		dir, err := kube.NewDirectory(&cfg.Kubernetes)
		if err != nil {
			log.Fatalf("infrastructure directory init failed: %v", err)
		}
		directory = dir

		prov, err := kube.NewProvisioner(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("provisioner init failed (continuing record-only): %v", err)
		} else {
			runner = prov
			log.Info("kubernetes provisioner initialized")
		}
	} else {
		directory = staticDirectory(&cfg.Kubernetes)
		log.Info("kubernetes integration disabled, using static infrastructure directory")
	}

	// Core Services (Application Layer)
	catalog := services.NewGPUCatalog()
	tenantSvc := services.NewTenantService(tenantRepo)
	planSvc := services.NewPlanService(sizingClient)
	compatSvc := services.NewCompatibilityService()
	deploySvc := services.NewDeploymentService(
		tenantRepo, executionRepo, directory, manifestGen, runner, compatSvc,
		domain.DefaultStages(), cfg.Deploy.StageTimeout,
	)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(tenantSvc, planSvc, compatSvc, deploySvc, catalog, directory)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/provisioning")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// staticDirectory serves a single generously-sized candidate so development
// installs can exercise planning and execution without a cluster.
type fixedDirectory []*domain.InfrastructureCandidate

func staticDirectory(cfg *config.KubernetesConfig) fixedDirectory {
	return fixedDirectory{{
		ID:        cfg.ClusterName,
		Name:      cfg.ClusterName,
		Provider:  domain.CloudProvider(cfg.Provider),
		Region:    cfg.Region,
		Status:    domain.InfraStatusActive,
		CPUCores:  256,
		MemoryGB:  1024,
		GPUUnits:  16,
		StorageGB: 10240,
	}}
}

func (d fixedDirectory) ListCandidates(context.Context) ([]*domain.InfrastructureCandidate, error) {
	return d, nil
}

func (d fixedDirectory) GetCandidate(_ context.Context, id string) (*domain.InfrastructureCandidate, error) {
	for _, candidate := range d {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return nil, domain.ErrInfrastructureNotFound
}
