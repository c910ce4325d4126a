package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/chore"
	"github.com/dukerupert/chorecore/internal/config"
	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/handler"
	"github.com/dukerupert/chorecore/internal/kv"
	"github.com/dukerupert/chorecore/internal/middleware"
	"github.com/dukerupert/chorecore/internal/store"
)

type Server struct {
	authH       *handler.AuthHandler
	houseH      *handler.HouseHandler
	templateH   *handler.TemplateHandler
	choreH      *handler.ChoreHandler
	rewardH     *handler.RewardHandler
	resolver    *auth.Resolver
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, rdb *redis.Client, tokens *auth.TokenManager, pub events.Publisher, rl config.RateLimitConfig, logger *slog.Logger) *Server {
	accountStore := store.NewAccountStore(db)
	houseStore := store.NewHouseStore(db)
	profileStore := store.NewProfileStore(db)
	templateStore := store.NewTemplateStore(db)
	choreStore := store.NewChoreStore(db)

	inviteStore := kv.NewInviteStore(rdb)
	rewardStore := kv.NewRewardStore(rdb)
	claimStore := kv.NewClaimStore(rdb)

	choreSvc := chore.NewService(templateStore, choreStore, profileStore, pub, logger.With("component", "chore"))

	return &Server{
		authH:       handler.NewAuthHandler(accountStore, tokens, logger.With("component", "auth")),
		houseH:      handler.NewHouseHandler(houseStore, profileStore, inviteStore, logger.With("component", "house")),
		templateH:   handler.NewTemplateHandler(choreSvc, logger.With("component", "template")),
		choreH:      handler.NewChoreHandler(choreSvc, logger.With("component", "chore")),
		rewardH:     handler.NewRewardHandler(rewardStore, claimStore, profileStore, pub, logger.With("component", "reward")),
		resolver:    auth.NewResolver(tokens, profileStore),
		rateLimiter: middleware.NewRateLimiter(rl.AuthPerMinute, rl.AuthBurst),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("POST /auth/register", s.rateLimited(s.authH.Register))
	outerMux.Handle("POST /auth/login", s.rateLimited(s.authH.Login))

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.resolver, s.logger.With("component", "auth"))
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h)
}

func member(h http.HandlerFunc) http.Handler { return middleware.RequireHouse(h) }
func admin(h http.HandlerFunc) http.Handler  { return middleware.RequireAdmin(h) }

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Onboarding: available before the caller belongs to a house
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("POST /api/houses", s.houseH.Create)
	mux.HandleFunc("POST /api/houses/join", s.houseH.Join)
	mux.HandleFunc("GET /api/house-by-code/{code}", s.houseH.ByCode)

	// House
	mux.Handle("GET /api/house/members", member(s.houseH.Members))
	mux.Handle("POST /api/house/invite-code", admin(s.houseH.RotateInvite))

	// Recurring task templates
	mux.Handle("GET /api/recurring-tasks", member(s.templateH.List))
	mux.Handle("POST /api/recurring-tasks", admin(s.templateH.Create))
	mux.Handle("PUT /api/recurring-tasks/{id}", admin(s.templateH.Update))
	mux.Handle("DELETE /api/recurring-tasks/{id}", admin(s.templateH.Delete))

	// Chores
	mux.Handle("GET /api/chores", member(s.choreH.List))
	mux.Handle("POST /api/chores", admin(s.choreH.Create))
	mux.Handle("GET /api/chores/pending", admin(s.choreH.Pending))
	mux.Handle("POST /api/chores/generate", member(s.choreH.Generate))
	mux.Handle("DELETE /api/chores/{id}", admin(s.choreH.Delete))
	mux.Handle("POST /api/chores/{id}/toggle", member(s.choreH.Toggle))
	mux.Handle("POST /api/chores/{id}/approve", admin(s.choreH.Approve))

	// Rewards
	mux.Handle("GET /api/rewards", member(s.rewardH.List))
	mux.Handle("POST /api/rewards", admin(s.rewardH.Create))
	mux.Handle("GET /api/rewards/claims", member(s.rewardH.Claims))
	mux.Handle("PUT /api/rewards/{id}", admin(s.rewardH.Update))
	mux.Handle("DELETE /api/rewards/{id}", admin(s.rewardH.Delete))
	mux.Handle("POST /api/rewards/{id}/claim", member(s.rewardH.Claim))
}
