package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/config"
	"github.com/gamerverse/backend/internal/services/access"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
	modsvc "github.com/gamerverse/backend/internal/services/moderation"
	postssvc "github.com/gamerverse/backend/internal/services/posts"
	userssvc "github.com/gamerverse/backend/internal/services/users"
	"github.com/gamerverse/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	UserService       *userssvc.Service
	PostService       *postssvc.Service
	ModerationService *modsvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	log := deps.Logger
	authHandler := handlers.NewAuthHandler(deps.AuthService, handlers.CookieConfig{
		Name:   deps.Config.Auth.CookieName,
		Secure: deps.Config.Auth.CookieSecure,
	}, log)
	healthHandler := handlers.NewHealthHandler()
	meHandler := handlers.NewMeHandler(deps.UserService, log)
	postsHandler := handlers.NewPostsHandler(deps.PostService, log)
	moderationHandler := handlers.NewModerationHandler(deps.ModerationService, log)

	var validator tokenValidator
	if deps.AuthService != nil {
		validator = deps.AuthService
	}
	authMW := AuthMiddleware(validator, deps.Config.Auth.CookieName, log)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout-all", authHandler.LogoutAll)
	})

	r.Route("/v1", func(r chi.Router) {
		r.With(authMW).Get("/me", meHandler.Get)
		r.With(authMW).Patch("/me", meHandler.Update)
		r.With(authMW).Post("/posts", postsHandler.Create)
		r.Get("/posts/{id}", postsHandler.Get)
		r.With(authMW).Post("/posts/{id}/report", postsHandler.Report)
		r.With(authMW).Post("/appeals", postsHandler.Appeal)
	})

	r.Route("/v1/moderation", func(r chi.Router) {
		r.Use(authMW)
		r.Use(RequireRole(access.ModeratorRoles()...))
		r.Delete("/posts/{id}", moderationHandler.DeletePost)
		r.Post("/posts/{id}/flag", moderationHandler.FlagPost)
		r.Post("/reports/{id}/resolve", moderationHandler.ResolveReport)
		r.Post("/appeals/{id}/approve", moderationHandler.ApproveAppeal)
		r.Post("/appeals/{id}/reject", moderationHandler.RejectAppeal)
		r.Post("/digest", moderationHandler.TriggerDigest)
		r.Get("/logs", moderationHandler.Logs)
		r.Get("/appeals", moderationHandler.Appeals)
		r.Get("/reports", moderationHandler.Reports)
		r.Get("/stats", moderationHandler.Stats)
	})
}
