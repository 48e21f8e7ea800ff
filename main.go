package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mrigankrai05/VitalSimple/controller"
	"github.com/mrigankrai05/VitalSimple/services"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
)

func main() {
	// Shared HTTP client for the Ollama collaborators. The timeout bounds
	// every embedding/generation call; the collaborators are the dominant
	// latency source and can hang.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	ollamaURL := getEnv("OLLAMA_URL", "http://localhost:11434")
	contextMode := getEnv("CONTEXT_MODE", services.ModeFullText)
	vectorBackend := getEnv("VECTOR_BACKEND", "memory")

	var generator services.Generator
	var embedder services.Embedder
	switch getEnv("LLM_BACKEND", "ollama") {
	case "gemini":
		geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
		}
		log.Println("Successfully connected to Google Gemini.")
		generator = services.NewGeminiGenerator(geminiClient, getEnv("GEMINI_MODEL", "gemini-2.5-flash"))
		embedder = services.NewGeminiEmbedder(geminiClient, getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"))
	default:
		generator = services.NewOllamaGenerator(httpClient, ollamaURL, getEnv("OLLAMA_CHAT_MODEL", "llama3"))
		embedder = services.NewOllamaEmbedder(httpClient, ollamaURL, getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"))
	}

	// The indexed mode needs a vector index per session; the chroma backend
	// requires a running ChromaDB server, the memory backend does not.
	var indexFactory services.IndexFactory
	if contextMode == services.ModeIndexed && vectorBackend == "chroma" {
		chromaClient, err := chromago.NewHTTPClient()
		if err != nil {
			log.Fatalf("FATAL: Failed to create chroma client: %v", err)
		}
		defer func() {
			if err := chromaClient.Close(); err != nil {
				log.Printf("Warning: Failed to close chroma client: %v", err)
			}
		}()
		indexFactory = services.NewChromaIndexFactory(chromaClient)
	} else {
		indexFactory = services.NewMemoryIndexFactory()
	}

	builder := &services.StoreBuilder{
		Mode:         contextMode,
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 100),
		TopK:         getEnvInt("RETRIEVE_K", 4),
		Embedder:     embedder,
		IndexFactory: indexFactory,
	}

	sessions := services.NewSessionService()
	ocr := services.NewOCRService(os.Getenv("TESSERACT_PATH"))
	analysis := services.NewAnalysisService(generator, getEnvInt("ANALYSIS_CHAR_BUDGET", 6000))
	chat := services.NewChatService(generator)
	reportService := services.NewReportService(ocr, builder, sessions, analysis, chat)
	reportController := controller.NewReportController(reportService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if ttl := getEnvInt("SESSION_TTL_MINUTES", 0); ttl > 0 {
		sessions.StartSweeper(ctx, time.Duration(ttl)*time.Minute, time.Minute)
		log.Printf("Session TTL eviction enabled: %d minutes.", ttl)
	}

	if watchDir := os.Getenv("REPORTS_WATCH_DIR"); watchDir != "" {
		watcherService := services.NewWatcherService(reportService)
		go watcherService.WatchDirectory(ctx, watchDir)
	}

	// Setup Gin router
	router := gin.Default()

	// CORS for the frontend; any origin is accepted.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Add health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "VitalSimple API",
			"version": "1.0.0",
		})
	})

	router.POST("/analyze", reportController.AnalyzeReport)
	router.POST("/chat", reportController.ChatWithReport)

	// Start the Server
	port := getEnv("PORT", "8080")
	log.Printf("VitalSimple backend starting on http://localhost:%s (context mode: %s)", port, contextMode)
	log.Printf("API endpoints:")
	log.Printf("  POST http://localhost:%s/analyze", port)
	log.Printf("  POST http://localhost:%s/chat", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
