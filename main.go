package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fengwang001/plant-version-app/auth"
	"github.com/fengwang001/plant-version-app/config"
	"github.com/fengwang001/plant-version-app/database"
	"github.com/fengwang001/plant-version-app/enrichment"
	"github.com/fengwang001/plant-version-app/handlers"
	"github.com/fengwang001/plant-version-app/recognition"
	"github.com/fengwang001/plant-version-app/repository"
	"github.com/fengwang001/plant-version-app/services"
	"github.com/fengwang001/plant-version-app/storage"
	"github.com/fengwang001/plant-version-app/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	var store storage.Store
	var localStore *storage.LocalStore
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		store, err = storage.NewS3Store(storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	default:
		localStore, err = storage.NewLocalStore(cfg.LocalStoragePath, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize local storage: %v", err)
		}
		store = localStore
	}

	var provider recognition.Provider
	mockProvider := recognition.NewMockProvider(time.Now().UnixNano())
	if cfg.RecognitionProvider == config.RecognitionProviderPlantID {
		provider = recognition.NewPlantIDProvider(cfg.PlantIDAPIKey, cfg.PlantIDAPIURL)
	} else {
		provider = mockProvider
	}
	log.Printf("Using recognition provider: %s", cfg.RecognitionProvider)

	userRepo := repository.NewGormUserRepository(db)
	mediaRepo := repository.NewGormMediaFileRepository(db)
	plantRepo := repository.NewGormPlantRepository(db)
	identRepo := repository.NewGormIdentificationRepository(db)
	postRepo := repository.NewGormPostRepository(db)
	subRepo := repository.NewGormSubscriptionRepository(db)

	enrichmentClient := enrichment.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, cfg.OpenAIModel)
	log.Printf("Initializing enrichment worker pool (Workers: %d, Queue Size: %d)...", cfg.NumEnrichmentWorkers, cfg.EnrichmentQueueSize)
	enrichmentPool := workers.NewEnrichmentPool(enrichmentClient, plantRepo, cfg.EnrichmentQueueSize, cfg.NumEnrichmentWorkers)
	defer enrichmentPool.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userService := services.NewUserService(userRepo, sqlDB)
	mediaService := services.NewMediaService(mediaRepo, store, cfg.ThumbnailMaxSize)
	plantService := services.NewPlantService(plantRepo, sqlDB)
	identService := services.NewIdentificationService(identRepo, userRepo, plantService, mediaService, provider, mockProvider, enrichmentPool)
	communityService := services.NewCommunityService(postRepo)
	subscriptionService := services.NewSubscriptionService(subRepo)

	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	plantHandler := handlers.NewPlantHandler(plantService)
	identHandler := handlers.NewIdentificationHandler(identService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	requireAuth := handlers.AuthMiddleware(tokens, userService)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/login/apple", authHandler.LoginApple)
			r.Post("/login/google", authHandler.LoginGoogle)
			r.Post("/login/guest", authHandler.LoginGuest)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.Me)
			r.Patch("/", userHandler.UpdateMe)
			r.Get("/profile", userHandler.Profile)
			r.Get("/stats", userHandler.Stats)
			r.Post("/deactivate", userHandler.Deactivate)
			r.Delete("/", userHandler.Delete)
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/presign", mediaHandler.Presign)
			r.Post("/upload", mediaHandler.Upload)
			r.Get("/", mediaHandler.List)
			r.Route("/{file_id}", func(r chi.Router) {
				r.Get("/", mediaHandler.Get)
				r.Post("/confirm", mediaHandler.Confirm)
				r.Delete("/", mediaHandler.Delete)
			})
		})

		r.Route("/plants", func(r chi.Router) {
			r.Get("/search", plantHandler.Search)
			r.Get("/featured", plantHandler.Featured)
			r.Get("/popular", plantHandler.Popular)
			r.Get("/{plant_id}", plantHandler.Get)
		})

		r.Route("/identifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", identHandler.Identify)
			r.Get("/", identHandler.List)
			r.Route("/{identification_id}", func(r chi.Router) {
				r.Get("/", identHandler.Get)
				r.Delete("/", identHandler.Delete)
				r.Post("/feedback", identHandler.SetFeedback)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", communityHandler.ListPosts)
			r.Get("/{post_id}", communityHandler.GetPost)
			r.With(requireAuth).Post("/", communityHandler.CreatePost)
		})

		r.With(requireAuth).Get("/subscriptions/status", subscriptionHandler.Status)
	})

	if localStore != nil {
		r.Get("/storage/*", handlers.StorageServer(localStore))
		r.Put("/storage/upload", handlers.StorageUploadHandler(localStore))
		log.Printf("Registered local storage server at /storage/*")
	}

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
