package api

import (
	"net/http"
	"path/filepath"
	"time"

	"neuraldiscourse-backend/internal/config"
	"neuraldiscourse-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers and configuration.
type RouterDependencies struct {
	ConversationHandler *handlers.ConversationHandlers
	ModelHandler        *handlers.ModelHandlers
	Config              *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID) // Inject request ID into context
	r.Use(middleware.RealIP)    // Use X-Forwarded-For or X-Real-IP
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer) // Recover from panics, return 500
	r.Use(SecurityHeaders)
	r.Use(middleware.Throttle(100)) // Cap concurrent in-flight requests

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			"X-Anthropic-Key", "X-Groq-Key", "X-OpenAI-Key", "X-XAI-Key",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Run streaming is registered outside the timeout group: a multi-turn
	// run legitimately outlives a per-request deadline, and its lifetime is
	// bounded by the consumer staying connected.
	r.Post("/api/conversations/{conversationID}/run", deps.ConversationHandler.HandleRunConversation)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/api/conversations", func(r chi.Router) {
			r.Post("/", deps.ConversationHandler.HandleCreateConversation)
			r.Get("/", deps.ConversationHandler.HandleListConversations)
			r.Get("/{conversationID}", deps.ConversationHandler.HandleGetConversation)
			r.Delete("/{conversationID}", deps.ConversationHandler.HandleDeleteConversation)
			r.Get("/{conversationID}/messages", deps.ConversationHandler.HandleListMessages)
			r.Post("/{conversationID}/messages", deps.ConversationHandler.HandleInjectMessage)
		})

		r.Route("/api/models", func(r chi.Router) {
			r.Get("/providers", deps.ModelHandler.HandleListProviders)
			r.Get("/all", deps.ModelHandler.HandleListAllModels)
		})
	})

	// --- Static Frontend ---
	if deps.Config != nil && deps.Config.StaticDir != "" {
		staticDir := deps.Config.StaticDir
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Handle("/static/*", fileServer)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
		})
	}

	return r
}
