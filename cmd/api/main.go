package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huddlehq/huddle-backend/internal/config"
	"github.com/huddlehq/huddle-backend/internal/handler"
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/huddlehq/huddle-backend/internal/repository/postgres"
	"github.com/huddlehq/huddle-backend/internal/repository/storage"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Run schema migrations
	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	channelRepo := postgres.NewChannelRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	reactionRepo := postgres.NewReactionRepository(pool)
	txManager := postgres.NewTxManager(pool)

	// Object storage for message attachments (optional)
	var attachmentStorage storage.AttachmentRepository
	if cfg.S3.AccessKeyID != "" {
		s3Repo, err := storage.NewS3AttachmentRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		attachmentStorage = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Attachment storage enabled")
	} else {
		log.Warn().Msg("Attachment storage disabled: no S3 credentials configured")
	}

	// Initialize services
	authorizer := service.NewAuthorizer(memberRepo)
	authService := service.NewAuthService(userRepo)
	workspaceService := service.NewWorkspaceService(
		workspaceRepo, memberRepo, channelRepo, conversationRepo,
		messageRepo, reactionRepo, authorizer, txManager,
	)
	memberService := service.NewMemberService(
		memberRepo, messageRepo, reactionRepo, conversationRepo,
		authorizer, txManager,
	)
	channelService := service.NewChannelService(channelRepo, authorizer, txManager)
	conversationService := service.NewConversationService(conversationRepo, memberRepo, authorizer, txManager)
	messageService := service.NewMessageService(
		messageRepo, channelRepo, conversationRepo, reactionRepo,
		authorizer, txManager, attachmentStorage,
	)
	attachmentService := service.NewAttachmentService(attachmentStorage, authorizer)

	// WebSocket hub: services publish events into it, clients subscribe per
	// workspace
	hub := websocket.NewHub()
	workspaceService.SetEventPublisher(hub)
	memberService.SetEventPublisher(hub)
	channelService.SetEventPublisher(hub)
	conversationService.SetEventPublisher(hub)
	messageService.SetEventPublisher(hub)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Per-user rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket token validation reuses the Auth0 JWKS
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, hub)
	memberHandler := handler.NewMemberHandler(memberService)
	channelHandler := handler.NewChannelHandler(channelService, messageService)
	conversationHandler := handler.NewConversationHandler(conversationService, messageService)
	messageHandler := handler.NewMessageHandler(messageService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, memberService, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(
		e, authMiddleware, rateLimiter,
		authHandler, workspaceHandler, memberHandler, channelHandler,
		conversationHandler, messageHandler, attachmentHandler, wsHandler,
	)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
