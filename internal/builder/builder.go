package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/medchat/docchat-backend/internal/api"
	chatapi "github.com/medchat/docchat-backend/internal/api/chat"
	documentapi "github.com/medchat/docchat-backend/internal/api/document"
	sessionapi "github.com/medchat/docchat-backend/internal/api/session"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/integration/embedding"
	"github.com/medchat/docchat-backend/internal/integration/llm"
	"github.com/medchat/docchat-backend/internal/pkg/extractor"
	"github.com/medchat/docchat-backend/internal/pkg/formatter"
	"github.com/medchat/docchat-backend/internal/pkg/validator"
	"github.com/medchat/docchat-backend/internal/repository"
	chatuc "github.com/medchat/docchat-backend/internal/usecase/chat"
	ingestuc "github.com/medchat/docchat-backend/internal/usecase/ingest"
	sessionuc "github.com/medchat/docchat-backend/internal/usecase/session"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	sessionRepo := repository.NewSessionPostgres(db)
	documentRepo := repository.NewDocumentPostgres(db)
	chunkRepo := repository.NewChunkPostgres(db)
	messageRepo := repository.NewMessagePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var embeddingConnector embedding.Provider
	var llmConnector chatuc.LLMConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddingConnector = embedding.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConnector = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Query embeddings are cached, repeated questions skip the service call
	cachedEmbedder := embedding.NewCachedProvider(embeddingConnector, cfg.EmbeddingConnectorCfg.CacheTTL, logger)

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	textExtractor := extractor.New(logger)

	// Initialize use cases
	sessionUC := sessionuc.NewUsecase(
		sessionRepo,
		documentRepo,
		messageRepo,
		formatter.NewFactory(),
		logger,
	)

	ingestUC := ingestuc.NewUsecase(
		sessionRepo,
		documentRepo,
		chunkRepo,
		cachedEmbedder,
		textExtractor,
		cfg.RetrievalCfg,
		cfg.UploadDir,
		logger,
	)

	chatUC := chatuc.NewUsecase(
		sessionRepo,
		chunkRepo,
		messageRepo,
		cachedEmbedder,
		llmConnector,
		cfg.RetrievalCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	sessionHandler := sessionapi.NewHandler(sessionUC)
	documentHandler := documentapi.NewHandler(ingestUC, fileValidator, cfg.FileUploadCfg)
	chatHandler := chatapi.NewHandler(chatUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(sessionHandler, documentHandler, chatHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
