package main

import (
	"fmt"
	"os"
	"time"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	"github.com/vbarroso/manutencao-backend/internal/db"
	"github.com/vbarroso/manutencao-backend/internal/handlers"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/repos"
	"github.com/vbarroso/manutencao-backend/internal/server"
	"github.com/vbarroso/manutencao-backend/internal/services"
	"github.com/vbarroso/manutencao-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Local store (schedule-policy offline fallback)
	localStore, err := db.NewLocalStore(log)
	if err != nil {
		log.Error("Local store init failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	assetRepo := repos.NewAssetRepo(thePG, log)
	workOrderRepo := repos.NewWorkOrderRepo(thePG, log)
	pgPolicyRepo := repos.NewSchedulePolicyRepo(thePG, log)
	localPolicyRepo, err := repos.NewLocalSchedulePolicyRepo(localStore, log)
	if err != nil {
		log.Error("Could not init local policy repo", "error", err)
		os.Exit(1)
	}
	policyRepo := repos.NewFailoverSchedulePolicyRepo(pgPolicyRepo, localPolicyRepo, log)

	// Cache
	readCache := cache.FromEnv(log)
	cacheTTLSeconds := utils.GetEnvAsInt("CACHE_TTL_SECONDS", 300, log)

	// Services
	log.Info("Setting up Services from main...")
	policyService := services.NewPolicyService(thePG, log, policyRepo, readCache)
	planningService := services.NewPlanningService(log, assetRepo, workOrderRepo, policyRepo, readCache, time.Duration(cacheTTLSeconds)*time.Second)
	generatorService := services.NewGeneratorService(log, assetRepo, workOrderRepo, policyRepo, readCache)
	importService := services.NewImportService(log, assetRepo, workOrderRepo, readCache)

	// Handlers
	log.Info("Setting up handlers from main...")
	planningHandler := handlers.NewPlanningHandler(log, planningService, generatorService)
	policyHandler := handlers.NewPolicyHandler(log, policyService)
	importHandler := handlers.NewImportHandler(log, importService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		PlanningHandler: planningHandler,
		PolicyHandler:   policyHandler,
		ImportHandler:   importHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
