package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/newsloom/newsloom-backend/internal/handlers"
	"github.com/newsloom/newsloom-backend/internal/middleware"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
	"github.com/newsloom/newsloom-backend/internal/utils"
)

type RouterConfig struct {
	Log                   *logger.Logger
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	ArticleHandler        *handlers.ArticleHandler
	CommentHandler        *handlers.CommentHandler
	CategoryHandler       *handlers.CategoryHandler
	NotificationHandler   *handlers.NotificationHandler
	SubscriptionHandler   *handlers.SubscriptionHandler
	RecommendationHandler *handlers.RecommendationHandler
	AdminHandler          *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			utils.GetEnv("CORS_ORIGIN", "http://localhost:3000", cfg.Log),
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public, with optional personalization.
	public := api.Group("/")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		public.POST("/register", cfg.AuthHandler.Register)
		public.POST("/login", cfg.AuthHandler.Login)

		public.GET("/articles", cfg.ArticleHandler.List)
		public.GET("/articles/:id", cfg.ArticleHandler.Get)
		public.GET("/articles/slug/:slug", cfg.ArticleHandler.GetBySlug)
		public.GET("/articles/:id/comments", cfg.CommentHandler.ListByArticle)

		public.GET("/categories", cfg.CategoryHandler.List)
		public.GET("/categories/:id", cfg.CategoryHandler.Get)

		public.GET("/trending", cfg.RecommendationHandler.Trending)

		public.GET("/subscriptions/tiers", cfg.SubscriptionHandler.ListTiers)
	}

	// Authenticated.
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PATCH("/user", cfg.UserHandler.UpdateMe)
		protected.GET("/user/preferences", cfg.UserHandler.GetPreferences)
		protected.PUT("/user/preferences", cfg.UserHandler.SetPreference)
		protected.DELETE("/user/preferences/:categoryID", cfg.UserHandler.DeletePreference)
		protected.GET("/user/saved", cfg.UserHandler.ListSaved)

		protected.POST("/authors/:id/follow", cfg.UserHandler.FollowAuthor)
		protected.DELETE("/authors/:id/follow", cfg.UserHandler.UnfollowAuthor)

		protected.GET("/recommendations", cfg.RecommendationHandler.Recommend)

		protected.POST("/articles/:id/comments", cfg.CommentHandler.Create)
		protected.PATCH("/comments/:id", cfg.CommentHandler.Update)
		protected.DELETE("/comments/:id", cfg.CommentHandler.Delete)

		protected.POST("/articles/:id/like", cfg.ArticleHandler.Like)
		protected.DELETE("/articles/:id/like", cfg.ArticleHandler.Unlike)
		protected.POST("/articles/:id/save", cfg.ArticleHandler.Save)
		protected.DELETE("/articles/:id/save", cfg.ArticleHandler.Unsave)

		protected.GET("/notifications", cfg.NotificationHandler.List)
		protected.GET("/notifications/unread", cfg.NotificationHandler.UnreadCount)
		protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
		protected.GET("/notifications/preferences", cfg.NotificationHandler.GetPreferences)
		protected.PUT("/notifications/preferences", cfg.NotificationHandler.UpdatePreferences)
		protected.POST("/notifications/digest", cfg.NotificationHandler.SendDigest)

		protected.GET("/subscriptions/current", cfg.SubscriptionHandler.GetCurrent)
		protected.POST("/subscriptions", cfg.SubscriptionHandler.Subscribe)
	}

	// Author tools.
	authoring := protected.Group("/")
	authoring.Use(middleware.RequireRole(types.RoleAuthor, types.RoleAdmin))
	{
		authoring.POST("/articles", cfg.ArticleHandler.Create)
		authoring.PATCH("/articles/:id", cfg.ArticleHandler.Update)
		authoring.DELETE("/articles/:id", cfg.ArticleHandler.Delete)
		authoring.POST("/articles/:id/publish", cfg.ArticleHandler.Publish)
		authoring.POST("/articles/:id/archive", cfg.ArticleHandler.Archive)
	}

	// Operator tools.
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(types.RoleAdmin))
	{
		admin.GET("/users", cfg.AdminHandler.ListUsers)
		admin.PATCH("/users/:id/active", cfg.AdminHandler.SetUserActive)
		admin.POST("/tiers", cfg.AdminHandler.CreateTier)
		admin.POST("/broadcast", cfg.AdminHandler.BroadcastBreakingNews)
		admin.POST("/categories", cfg.CategoryHandler.Create)
		admin.PATCH("/categories/:id", cfg.CategoryHandler.Update)
		admin.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
	}

	return router
}
