package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"menu-catalog/internal/config"
	"menu-catalog/internal/database"
	custommiddleware "menu-catalog/internal/middleware"
	"menu-catalog/internal/repository"
	"menu-catalog/internal/service"
	"menu-catalog/internal/storage"
	"menu-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db database.Service,
	assets storage.AssetStore,
	redisClient *redis.Client,
) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(db.Health())
	})

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db.DB())
	subCategoryRepo := repository.NewSubCategoryRepository(db.DB())
	itemRepo := repository.NewItemRepository(db.DB())

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, assets, logger)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, assets, logger)
	itemService := service.NewItemService(itemRepo, categoryRepo, subCategoryRepo, assets, logger)

	// Initialize handlers
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	subCategoryHandler := transport.NewSubCategoryHandler(subCategoryService, logger)
	itemHandler := transport.NewItemHandler(itemService, logger)

	// Register API routes behind the rate limiter
	router.Group(func(r chi.Router) {
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
				Window:            time.Minute,
				KeyPrefix:         "ratelimit:catalog",
			}, logger))
		}

		categoryHandler.RegisterRoutes(r)
		subCategoryHandler.RegisterRoutes(r)
		itemHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
