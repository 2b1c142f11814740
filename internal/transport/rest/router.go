package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formpulse/internal/service"
	"formpulse/internal/transport/rest/handler"
	"formpulse/internal/transport/rest/middleware"
	"formpulse/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	QuestionnaireService *service.QuestionnaireService
	ResponseService      *service.ResponseService
	StatisticsService    *service.StatisticsService
	WSHub                *ws.Hub
	UploadDir            string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	questionnaireHandler := handler.NewQuestionnaireHandler(c.QuestionnaireService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	statisticsHandler := handler.NewStatisticsHandler(c.StatisticsService)
	uploadHandler := handler.NewUploadHandler(c.UploadDir)
	wsHandler := ws.NewHandler(c.WSHub)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions", responseHandler.NewSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questionnaires", questionnaireHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{id}", questionnaireHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{id}/progress", responseHandler.SaveProgress).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questionnaires/{id}/progress", responseHandler.GetProgress).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{id}/submit", responseHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questionnaires/{id}/statistics", statisticsHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route (public: completion counts are public data)
	v1.HandleFunc("/ws/questionnaires/{id}", wsHandler.WatchWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Static serving of uploaded images
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(c.UploadDir))))

	// Editor routes (require editor auth)
	editorRoutes := v1.NewRoute().Subrouter()
	editorRoutes.Use(authMW.RequireEditor)

	editorRoutes.HandleFunc("/questionnaires", questionnaireHandler.Create).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{id}", questionnaireHandler.Update).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{id}", questionnaireHandler.Delete).Methods("DELETE", "OPTIONS")
	editorRoutes.HandleFunc("/uploads", uploadHandler.Upload).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
