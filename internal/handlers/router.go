package handlers

import (
	"net/http"
	"time"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/middleware"
	"github.com/Varun5711/tasktracker/internal/service"
)

type RouterConfig struct {
	Users *service.UserService
	Auth  *service.AuthService
	Tasks *service.TaskService
	Store Pinger
	Redis RedisStatus
	Log   *logger.Logger

	// Limiter guards the unauthenticated credential routes; nil disables it.
	Limiter        *middleware.RateLimiter
	CookieSecure   bool
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	users := NewUserHandler(cfg.Users, cfg.Log)
	auth := NewAuthHandler(cfg.Auth, cfg.CookieSecure, cfg.Log)
	tasks := NewTaskHandler(cfg.Tasks, cfg.Log)
	health := NewHealthHandler(cfg.Store, cfg.Redis, cfg.Log)

	requireAuth := middleware.NewAuthMiddleware(cfg.Auth, cfg.Log).RequireAuth
	limit := cfg.Limiter.Middleware

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)

	mux.Handle("POST /user", limit(http.HandlerFunc(users.Register)))
	mux.Handle("POST /login", limit(http.HandlerFunc(auth.Login)))
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.Handle("GET /me", requireAuth(http.HandlerFunc(users.Me)))

	mux.Handle("POST /user/{user_id}/task", requireAuth(http.HandlerFunc(tasks.Create)))
	mux.Handle("POST /task/{task_id}/complete", requireAuth(http.HandlerFunc(tasks.Complete)))
	mux.Handle("POST /task/{task_id}/delete", requireAuth(http.HandlerFunc(tasks.Delete)))
	mux.Handle("GET /task/{user_id}", requireAuth(http.HandlerFunc(tasks.List)))
	mux.Handle("GET /progress/{user_id}", requireAuth(http.HandlerFunc(tasks.Progress)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "no such route")
	})

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(cfg.Log),
		middleware.Recovery(cfg.Log),
		middleware.Timeout(cfg.RequestTimeout),
	)
}
