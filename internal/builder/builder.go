package builder

import (
	"fmt"
	"net/http"

	"github.com/futig/rag-playground/internal/api"
	chatapi "github.com/futig/rag-playground/internal/api/chat"
	documentapi "github.com/futig/rag-playground/internal/api/document"
	sessionapi "github.com/futig/rag-playground/internal/api/session"
	"github.com/futig/rag-playground/internal/chunker"
	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/extractor"
	"github.com/futig/rag-playground/internal/integration/embedding"
	"github.com/futig/rag-playground/internal/integration/llm"
	"github.com/futig/rag-playground/internal/integration/processing"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/futig/rag-playground/internal/pkg/validator"
	"github.com/futig/rag-playground/internal/usecase/chat"
	"github.com/futig/rag-playground/internal/usecase/document"
	"github.com/futig/rag-playground/internal/usecase/session"
	"go.uber.org/zap"
)

func Build() (*App, error) {
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
		zap.String("server_addr", cfg.ServerCfg.Addr),
	)

	router, err := buildRouter(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create HTTP server
	server := &http.Server{
		Addr:        cfg.ServerCfg.Addr,
		Handler:     router,
		ReadTimeout: cfg.ServerCfg.ReadTimeout,
		// Zero by default so chat streams are not cut off.
		WriteTimeout: cfg.ServerCfg.WriteTimeout,
		IdleTimeout:  cfg.ServerCfg.IdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ServerCfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// buildRouter wires every component from cfg.
func buildRouter(cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	stores, err := setupStorage(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	// Initialize connectors
	embeddingConnector := embedding.NewConnector(cfg.LLMConnectorCfg, cfg.EmbeddingCfg, logger)

	var llmConnector chat.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for chat completions")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize validators
	requestValidator, err := validator.NewValidator(cfg.FileUploadCfg)
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}

	textChunker, err := chunker.New(cfg.RAGCfg.ChunkSize, cfg.RAGCfg.ChunkOverlap, cfg.RAGCfg.MaxChunks)
	if err != nil {
		return nil, fmt.Errorf("init chunker: %w", err)
	}

	// Initialize use cases
	sessionUC := session.NewUsecase(stores.documents, stores.activity, stores.uploadDir, logger)

	documentUC, err := document.NewUsecase(
		extractor.NewPDFExtractor(),
		textChunker,
		embeddingConnector,
		stores.documents,
		requestValidator,
		cfg.FileUploadCfg,
		cfg.RAGCfg,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("init document usecase: %w", err)
	}

	chatUC := chat.NewUsecase(
		embeddingConnector,
		stores.documents,
		llmConnector,
		requestValidator,
		cfg.LLMConnectorCfg,
		cfg.RAGCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	var processor documentapi.Processor
	if cfg.ProcessingConnectorCfg.Url != "" {
		logger.Info("Uploads are processed through the processing service",
			zap.String("url", cfg.ProcessingConnectorCfg.Url),
		)
		processor = processing.NewConnector(cfg.ProcessingConnectorCfg, logger)
	} else {
		processor = document.NewLocalProcessor(documentUC)
	}

	// Setup API handlers
	cookies := sessioncookie.NewManager(cfg.SessionCfg.CookieName, cfg.SessionCfg.CookieSecure)
	handlers := api.Handlers{
		Document: documentapi.NewHandler(documentUC, processor, sessionUC, cookies, cfg.FileUploadCfg.MaxFormSize),
		Chat:     chatapi.NewHandler(chatUC, sessionUC, cookies),
		Session:  sessionapi.NewHandler(sessionUC, cookies, cfg.SessionCfg.IdleTimeout),
	}
	logger.Info("API handlers initialized",
		zap.Bool("remote_embeddings", embeddingConnector.Enabled()),
		zap.Bool("chat_enabled", llmConnector.Enabled()),
	)

	// Setup router
	router := api.SetupRouter(api.RouterConfig{
		RequestTimeout: cfg.ServerCfg.RequestTimeout,
		InternalToken:  cfg.ProcessingConnectorCfg.Token,
		AllowedOrigins: cfg.ServerCfg.CORSOrigins,
	}, handlers, logger)
	logger.Info("HTTP router configured")

	return router, nil
}
