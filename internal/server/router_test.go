package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsloom/newsloom-backend/internal/handlers"
	"github.com/newsloom/newsloom-backend/internal/middleware"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
)

func TestNewRouterServesHealthcheck(t *testing.T) {
	log := logger.Nop()
	router := NewRouter(RouterConfig{
		Log:                   log,
		AuthHandler:           handlers.NewAuthHandler(nil),
		AuthMiddleware:        middleware.NewAuthMiddleware(log, nil),
		UserHandler:           handlers.NewUserHandler(nil),
		ArticleHandler:        handlers.NewArticleHandler(nil),
		CommentHandler:        handlers.NewCommentHandler(nil),
		CategoryHandler:       handlers.NewCategoryHandler(nil),
		NotificationHandler:   handlers.NewNotificationHandler(nil),
		SubscriptionHandler:   handlers.NewSubscriptionHandler(nil),
		RecommendationHandler: handlers.NewRecommendationHandler(nil),
		AdminHandler:          handlers.NewAdminHandler(nil, nil, nil),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("healthcheck status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("healthcheck body = %q, want %q", w.Body.String(), "ok")
	}
}
