package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-intelligence/pkg/validator"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/connector"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/integration"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/session"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/voiceprofile"
	pkgai "github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	log.Println("🔧 Initializing dependencies...")

	// Session archive (optional)
	var archiveRepo *repository.ArchiveRepository
	var archiveWriter session.ArchiveRepository
	var archiveReader handler.ArchiveReader
	if cfg.Database.Enabled {
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
		archiveRepo = repository.NewArchiveRepository(db)
		archiveWriter = archiveRepo
		archiveReader = archiveRepo
	} else {
		log.Println("📦 Database disabled, completed sessions are not archived")
	}

	// Voice profile store: session scope keeps profiles in memory, global
	// scope shares them across instances through Redis
	var profiles voiceprofile.Store
	if cfg.Pipeline.ProfileScope == "global" {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		profiles = voiceprofile.NewRedisStore(redisClient, logger)
	} else {
		profiles = voiceprofile.NewMemoryStore(logger)
	}

	// Speech recognition
	log.Println("🤖 Initializing pipeline components...")
	var recognizer transcription.Recognizer
	if cfg.Pipeline.Recognizer == "assemblyai" {
		recognizer = transcription.NewAssemblyAIRecognizer(cfg.Assembly.APIKey, logger)
		log.Println("🎙️  Recognizer: AssemblyAI")
	} else {
		recognizer = transcription.NewStaticRecognizer()
		log.Println("🎙️  Recognizer: static (development)")
	}

	engine := transcription.NewEngine(recognizer, transcription.NewFeatureDiarizer(), profiles, logger)
	engine.SetMaxRetries(cfg.Pipeline.MaxRetries)

	// Insight extraction
	var extractor analysis.Extractor
	if cfg.Pipeline.Extractor == "groq" {
		extractor = analysis.NewGroqExtractor(pkgai.NewGroqClient(&cfg.Groq), logger)
		log.Println("🧠 Extractor: Groq")
	} else {
		extractor = analysis.NewRuleExtractor()
		log.Println("🧠 Extractor: rules")
	}
	analyzer := analysis.NewAnalyzer(extractor, logger)

	// Recording store (optional)
	var recordings session.RecordingStore
	if cfg.Storage.Enabled {
		log.Println("📦 Connecting to MinIO...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		recordings = minioClient
		log.Println("✅ Recording store ready")
	}

	// Session orchestration
	sessionStore := session.NewMemoryStore()
	if err := sessionStore.Init(); err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	orchestrator := session.NewOrchestrator(
		sessionStore, engine, analyzer, recordings, archiveWriter,
		cfg.Pipeline.ChunkQueueSize, logger,
	)

	// Platform connectors
	log.Println("🔌 Initializing platform connectors...")
	push := connector.NewPushConnector(cfg.Pipeline.ChunkQueueSize, logger)
	connectors := connector.NewRegistry()
	connectors.Register(entities.PlatformZoom, push)
	connectors.Register(entities.PlatformTeams, push)
	connectors.Register(entities.PlatformGoogleMeet, push)
	connectors.Register(entities.PlatformSlackHuddles, push)

	log.Println("🎥 Initializing LiveKit client...")
	livekitClient := livekit.NewClient(&cfg.LiveKit)
	if cfg.LiveKit.Mock {
		log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
	} else {
		log.Printf("✅ LiveKit connected to: %s", cfg.LiveKit.Host)
	}
	connectors.Register(entities.PlatformLiveKit, connector.NewLiveKitConnector(livekitClient, push, logger))

	// Task sync and calendar planning
	taskRegistry := integration.NewRegistry()
	taskRegistry.Register(entities.TaskPlatformLoopback, integration.NewLoopbackClient())
	syncer := integration.NewTaskSyncer(taskRegistry, logger)
	scheduler := integration.NewCalendarScheduler(logger)

	// HTTP surface
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeetingHandler(
		orchestrator, connectors, push, syncer, scheduler, archiveReader, logger,
	)
	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// End live sessions so their snapshots reach the archive
	orchestrator.Shutdown(ctx)

	log.Println("✅ Server stopped gracefully")
}
