package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Mrhb33/Artivty/internal/config"
	"github.com/Mrhb33/Artivty/internal/database"
	"github.com/Mrhb33/Artivty/internal/middleware"
	"github.com/Mrhb33/Artivty/internal/modules/auth"
	"github.com/Mrhb33/Artivty/internal/modules/media"
	"github.com/Mrhb33/Artivty/internal/modules/negotiation"
	"github.com/Mrhb33/Artivty/internal/modules/notification"
	"github.com/Mrhb33/Artivty/internal/modules/portfolio"
	"github.com/Mrhb33/Artivty/internal/modules/verification"
	jwtsvc "github.com/Mrhb33/Artivty/internal/pkg/jwt"
	"github.com/Mrhb33/Artivty/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	artworkRepo := repository.NewArtworkRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.RefreshTTL)
	verifier := verification.NewVerifier(userRepo, artworkRepo)

	notificationService := notification.NewService(notificationRepo, nil)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(userRepo, artworkRepo, verifier, j)
	authHandler := auth.NewHandler(authService)

	portfolioService := portfolio.NewService(artworkRepo, userRepo, verifier)
	portfolioHandler := portfolio.NewHandler(portfolioService)

	negotiationService := negotiation.NewService(requestRepo, offerRepo, userRepo, verifier, notificationService)
	negotiationHandler := negotiation.NewHandler(negotiationService)

	mediaService := media.NewService(cfg.MediaDir, cfg.MediaBaseURL)
	mediaHandler := media.NewHandler(mediaService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Static(cfg.MediaBaseURL, cfg.MediaDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterRoutes(protected)
			portfolioHandler.RegisterRoutes(protected)
			negotiationHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			mediaHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/users", authHandler.Search)
			}
		}
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
