package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"

	"github.com/shuamamine/outfit-backend/internal/config"
	"github.com/shuamamine/outfit-backend/internal/filestore"
	"github.com/shuamamine/outfit-backend/internal/history"
	"github.com/shuamamine/outfit-backend/internal/stylist"
)

// AppState holds all application services
type AppState struct {
	Logger  *zap.Logger
	DB      *bun.DB
	GenAI   *genai.Client
	Files   *filestore.Store
	History history.HistoryManager
	Stylist *stylist.Service
}

func main() {
	// Load configuration
	config.Load()

	logger := initLogger()
	logger.Info("Configuration loaded")

	ctx := context.Background()
	as, err := newAppState(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting stylist server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(ctx context.Context, logger *zap.Logger) (*AppState, error) {
	pgConfig := config.Postgres()

	logger.Info("Database configuration",
		zap.String("host", pgConfig.Host),
		zap.Int("port", pgConfig.Port),
		zap.String("database", pgConfig.Database))

	db, err := initializeDatabase(pgConfig.DSN(), pgConfig.MaxOpenConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := history.CreateTables(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	if err := history.CreateIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create history indexes: %w", err)
	}

	stylistConfig := config.Stylist()

	files, err := filestore.New(stylistConfig.HistoryRoot, logger)
	if err != nil {
		return nil, err
	}

	if stylistConfig.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required - set GEMINI_API_KEY or stylist.gemini_api_key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(stylistConfig.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	historyService := history.NewHistoryService(history.NewPostgresStore(db))
	assembler := stylist.NewAssembler(files, historyService, logger)
	analyzer := stylist.NewGeminiAnalyzer(client, stylistConfig.AnalysisModel)
	generator := stylist.NewGeminiGenerator(client, stylistConfig.ImageModel)
	stylistService := stylist.NewService(analyzer, generator, assembler, stylistConfig.ReferencePath(), logger)

	return &AppState{
		Logger:  logger,
		DB:      db,
		GenAI:   client,
		Files:   files,
		History: historyService,
		Stylist: stylistService,
	}, nil
}

func initializeDatabase(databaseURL string, maxConnections int) (*bun.DB, error) {
	if maxConnections <= 0 {
		maxConnections = 10
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.MaxMultipartMemory = config.Http().MaxRequestSize

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := as.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Ingestion surface
	router.POST("/generate-styles", generateStyles(as))
	router.POST("/generate-single-outfit", generateSingleOutfit(as))
	router.POST("/upload-reference-template", uploadReferenceTemplate(as))

	// History surface
	router.GET("/history", listHistory(as))
	router.GET("/history/detail/:sessionId", historyDetail(as))
	router.DELETE("/delete-session/:sessionId", deleteSession(as))
	router.POST("/clear-history", clearHistory(as))

	// Stored images
	router.Static("/public/history", config.Stylist().HistoryRoot)
	router.Static("/public/assets", config.Stylist().AssetsRoot)

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := as.DB.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
		if err := as.GenAI.Close(); err != nil {
			logger.Error("Error closing Gemini client", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}

// readImageFile reads one uploaded file from a multipart form field
func readImageFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	return "/public/history/" + path
}

// sessionDetailResponse shapes one session record for the API
func sessionDetailResponse(detail *history.SessionDetail) gin.H {
	results := make([]gin.H, 0, len(detail.Images))
	for _, img := range detail.Images {
		entry := gin.H{
			"occasion": img.Occasion,
			"url":      imageURL(img.ImagePath),
		}
		if img.ErrorMessage != "" {
			entry["error"] = img.ErrorMessage
		}
		results = append(results, entry)
	}

	resp := gin.H{
		"sessionId": detail.SessionID,
		"kind":      detail.Kind,
		"createdAt": detail.CreatedAt,
		"uploaded":  imageURL(detail.InputImagePath),
		"preview":   imageURL(detail.PreviewImagePath),
		"results":   results,
	}
	if detail.Analysis != nil {
		resp["apparel"] = detail.Analysis.ApparelPresent
		resp["details"] = detail.Analysis.Details
		resp["suggestions"] = detail.Analysis.Suggestions
	}
	return resp
}

func generateStyles(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		image, err := readImageFile(c, "image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}

		detail, err := as.Stylist.GenerateStyles(c.Request.Context(), image)
		if err != nil {
			as.Logger.Error("Failed to generate styles", zap.Error(err))
			if stylist.IsAnalysisError(err) {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate styles"})
			}
			return
		}

		c.JSON(http.StatusOK, sessionDetailResponse(detail))
	}
}

func generateSingleOutfit(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		image, err := readImageFile(c, "image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No input apparel image uploaded"})
			return
		}

		description := c.PostForm("description")
		if description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No outfit description provided"})
			return
		}
		category := c.DefaultPostForm("category", "")

		detail, err := as.Stylist.GenerateSingleOutfit(c.Request.Context(), image, description, category)
		if err != nil {
			as.Logger.Error("Failed to generate single outfit", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate outfit"})
			return
		}

		c.JSON(http.StatusOK, sessionDetailResponse(detail))
	}
}

func uploadReferenceTemplate(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := readImageFile(c, "template")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No template image uploaded"})
			return
		}

		if err := as.Stylist.SaveReferenceTemplate(data); err != nil {
			as.Logger.Error("Failed to save reference template", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reference template"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": "Reference template image uploaded successfully",
			"url":     "/public/assets/" + config.Stylist().ReferenceImage,
		})
	}
}

func listHistory(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := as.History.ListSessions(c.Request.Context())
		if err != nil {
			as.Logger.Error("Failed to list sessions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
			return
		}

		items := make([]gin.H, 0, len(summaries))
		for _, summary := range summaries {
			results := make([]gin.H, 0, len(summary.Images))
			for _, img := range summary.Images {
				results = append(results, gin.H{
					"occasion": img.Occasion,
					"url":      imageURL(img.ImagePath),
				})
			}
			items = append(items, gin.H{
				"sessionId": summary.SessionID,
				"kind":      summary.Kind,
				"uploaded":  imageURL(summary.InputImagePath),
				"preview":   imageURL(summary.PreviewImagePath),
				"results":   results,
				"createdAt": summary.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, items)
	}
}

func historyDetail(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")

		detail, err := as.History.GetSessionDetail(c.Request.Context(), sessionID)
		if err != nil {
			if history.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "History entry not found"})
				return
			}
			as.Logger.Error("Failed to get session detail", zap.String("session_id", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history entry"})
			return
		}

		c.JSON(http.StatusOK, sessionDetailResponse(detail))
	}
}

func deleteSession(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")

		paths, err := as.History.DeleteSession(c.Request.Context(), sessionID)
		if err != nil {
			if history.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			as.Logger.Error("Failed to delete session", zap.String("session_id", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
			return
		}

		// Rows are gone; file removal is best-effort
		for _, path := range paths {
			as.Files.Delete(path)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Session %s and all associated data deleted successfully", sessionID),
		})
	}
}

func clearHistory(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := as.History.ClearSessions(c.Request.Context()); err != nil {
			as.Logger.Error("Failed to clear history rows", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
			return
		}

		if err := as.Files.ClearAll(); err != nil {
			as.Logger.Error("Failed to clear history files", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history files"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": "History cleared successfully"})
	}
}
