package rest

import (
	"context"
	"net/http"
	"soulsprint/internal/logger"
	"soulsprint/internal/service"
	"soulsprint/internal/transport/rest/handler"
	"soulsprint/internal/transport/rest/middleware"
	"soulsprint/internal/transport/ws"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	EngineService  *service.EngineService
	WSHub          *ws.Hub
	Logger         *logger.Logger
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.EngineService, c.AuthService)
	staffHandler := handler.NewStaffHandler(c.EngineService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")
	v1.HandleFunc("/ws/staff", wsHandler.StaffWS).Methods("GET")

	api := v1.NewRoute().Subrouter()
	api.Use(timeoutMiddleware(c.RequestTimeout))

	// Public routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/questionnaire", sessionHandler.Questionnaire).Methods("GET")
	api.HandleFunc("/sessions", sessionHandler.Start).Methods("POST")

	// Session routes (require a token for that session)
	sessionRoutes := api.PathPrefix("/sessions/{sessionId}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET")
	sessionRoutes.HandleFunc("", sessionHandler.End).Methods("DELETE")
	sessionRoutes.HandleFunc("/answers", sessionHandler.SubmitAnswer).Methods("POST")
	sessionRoutes.HandleFunc("/assessment", sessionHandler.GetAssessment).Methods("GET")
	sessionRoutes.HandleFunc("/reset", sessionHandler.Reset).Methods("POST")
	sessionRoutes.HandleFunc("/chat", sessionHandler.SendMessage).Methods("POST")
	sessionRoutes.HandleFunc("/chat", sessionHandler.Transcript).Methods("GET")
	sessionRoutes.HandleFunc("/tasks", sessionHandler.Tasks).Methods("GET")
	sessionRoutes.HandleFunc("/tasks/{taskId}/complete", sessionHandler.CompleteTask).Methods("POST")
	sessionRoutes.HandleFunc("/progress", sessionHandler.Progress).Methods("GET")

	// Staff routes (require staff auth)
	staffRoutes := api.NewRoute().Subrouter()
	staffRoutes.Use(authMW.RequireStaff)

	staffRoutes.HandleFunc("/escalations", staffHandler.Escalations).Methods("GET")

	origins := c.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return otelhttp.NewHandler(corsHandler.Handler(r), "soulsprint-api")
}

func timeoutMiddleware(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
