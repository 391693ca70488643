package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codelingo/internal/config"
	"codelingo/internal/database"
	"codelingo/internal/handlers"
	"codelingo/internal/repository"
	"codelingo/internal/service"
	"codelingo/internal/session"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Session store: Redis when configured, in-process memory otherwise
	store, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)

	// Initialize services
	profileService := service.NewProfileService(profileRepo)
	authService := service.NewAuthService(userRepo, profileService, cfg.SessionSecret, cfg.SessionDuration)
	challengeService := service.NewChallengeService(db, service.DefaultChallengeCatalog)
	lessonService := service.NewLessonService(db, lessonRepo, progressRepo, profileService, challengeService, store)
	trainingService := service.NewTrainingService(db, trainingRepo, profileService, store)
	shopService := service.NewShopService(profileService)

	if cfg.SeedDemoContent {
		if err := service.SeedDemoContent(lessonRepo, trainingRepo); err != nil {
			log.Printf("Warning: Failed to seed demo content: %v", err)
		}
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(cfg.SessionSecret)
	authHandler := handlers.NewAuthHandler(authService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	trainingHandler := handlers.NewTrainingHandler(trainingService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	shopHandler := handlers.NewShopHandler(shopService, profileService)
	profileHandler := handlers.NewProfileHandler(profileService, authService)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authHandler.Logout)

	mux.HandleFunc("GET /home", middleware.RequireAuth(lessonHandler.Home))
	mux.HandleFunc("GET /lessons/{lessonID}/page/{page}", middleware.RequireAuth(lessonHandler.ShowPage))
	mux.HandleFunc("POST /lessons/{lessonID}/page/{page}", middleware.RequireAuth(lessonHandler.SubmitPage))
	mux.HandleFunc("GET /lessons/{lessonID}/result", middleware.RequireAuth(lessonHandler.ShowResult))
	mux.HandleFunc("POST /lessons/{lessonID}/end", middleware.RequireAuth(lessonHandler.EndLesson))
	mux.HandleFunc("POST /ajax/check-answer", middleware.RequireAuth(lessonHandler.CheckAnswer))

	mux.HandleFunc("GET /trainings", middleware.RequireAuth(trainingHandler.List))
	mux.HandleFunc("GET /trainings/{trainingID}/question/{page}", middleware.RequireAuth(trainingHandler.ShowQuestion))
	mux.HandleFunc("POST /trainings/{trainingID}/question/{page}", middleware.RequireAuth(trainingHandler.SubmitQuestion))
	mux.HandleFunc("GET /trainings/{trainingID}/result", middleware.RequireAuth(trainingHandler.ShowResult))

	mux.HandleFunc("GET /challenges", middleware.RequireAuth(challengeHandler.List))
	mux.HandleFunc("POST /challenges/{progressID}/redeem", middleware.RequireAuth(challengeHandler.Redeem))

	mux.HandleFunc("GET /shop", middleware.RequireAuth(shopHandler.Show))
	mux.HandleFunc("POST /shop/buy-hearts", middleware.RequireAuth(shopHandler.BuyHearts))

	mux.HandleFunc("GET /profile", middleware.RequireAuth(profileHandler.Show))
	mux.HandleFunc("GET /leaderboard", middleware.RequireAuth(profileHandler.Leaderboard))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// buildSessionStore picks the session backend. Redis keeps lesson state
// across restarts and server instances; the memory store is for single
// instance and development runs.
func buildSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, using in-memory session store")
		return session.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Using Redis session store at %s", opts.Addr)
	return session.NewRedisStore(redis.NewClient(opts), cfg.SessionDuration), nil
}
