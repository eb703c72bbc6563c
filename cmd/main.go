package main

import (
	"fmt"
	"os"
	"time"

	"github.com/newsloom/newsloom-backend/internal/clients/redis"
	"github.com/newsloom/newsloom-backend/internal/db"
	"github.com/newsloom/newsloom-backend/internal/events"
	"github.com/newsloom/newsloom-backend/internal/handlers"
	"github.com/newsloom/newsloom-backend/internal/middleware"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/server"
	"github.com/newsloom/newsloom-backend/internal/services"
	"github.com/newsloom/newsloom-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	articleRepo := repos.NewArticleRepo(thePG, log)
	commentRepo := repos.NewCommentRepo(thePG, log)
	likeRepo := repos.NewArticleLikeRepo(thePG, log)
	savedRepo := repos.NewSavedArticleRepo(thePG, log)
	viewRepo := repos.NewArticleViewRepo(thePG, log)
	userPrefRepo := repos.NewUserPreferenceRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	notifPrefRepo := repos.NewNotificationPreferenceRepo(thePG, log)
	followerRepo := repos.NewAuthorFollowerRepo(thePG, log)
	tierRepo := repos.NewSubscriptionTierRepo(thePG, log)
	subRepo := repos.NewUserSubscriptionRepo(thePG, log)

	// Event bus
	bus := events.NewBus(log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, notifPrefRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, followerRepo, userPrefRepo, savedRepo, categoryRepo)
	recommendationService := services.NewRecommendationService(thePG, log, articleRepo, userPrefRepo, likeRepo, savedRepo, viewRepo)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, notifPrefRepo, userRepo, articleRepo, followerRepo)
	articleService := services.NewArticleService(thePG, log, bus, articleRepo, categoryRepo, likeRepo, savedRepo, recommendationService, notificationService)
	commentService := services.NewCommentService(thePG, log, commentRepo, articleRepo, notificationService)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)
	subscriptionService := services.NewSubscriptionService(thePG, log, bus, userRepo, tierRepo, subRepo)

	// Delivery channels
	notificationService.RegisterChannel(services.NewEmailChannel(log))
	if pushBus, err := redis.NewPushBus(log); err != nil {
		log.Warn("Push delivery disabled", "error", err)
	} else {
		notificationService.RegisterChannel(services.NewPushChannel(log, pushBus))
	}

	// Event observers
	services.RegisterObservers(bus, log, notificationService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	articleHandler := handlers.NewArticleHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	adminHandler := handlers.NewAdminHandler(userRepo, tierRepo, notificationService)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		UserHandler:           userHandler,
		ArticleHandler:        articleHandler,
		CommentHandler:        commentHandler,
		CategoryHandler:       categoryHandler,
		NotificationHandler:   notificationHandler,
		SubscriptionHandler:   subscriptionHandler,
		RecommendationHandler: recommendationHandler,
		AdminHandler:          adminHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
