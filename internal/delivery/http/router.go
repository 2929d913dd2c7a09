package http

import (
	"net/http"

	"lastwill-backend/internal/delivery/http/handler"
	"lastwill-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	professionalHandler *handler.ProfessionalHandler
	matchingHandler     *handler.MatchingHandler
	appointmentHandler  *handler.AppointmentHandler
	willHandler         *handler.WillHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	professionalHandler *handler.ProfessionalHandler,
	matchingHandler *handler.MatchingHandler,
	appointmentHandler *handler.AppointmentHandler,
	willHandler *handler.WillHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		professionalHandler: professionalHandler,
		matchingHandler:     matchingHandler,
		appointmentHandler:  appointmentHandler,
		willHandler:         willHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/client", r.authHandler.RegisterClient).Methods(http.MethodPost)
	auth.HandleFunc("/register/professional", r.authHandler.RegisterProfessional).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public professional surface
	api.HandleFunc("/professionals/{id}/slots", r.professionalHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Death notifications come from funeral homes and families, not accounts
	api.HandleFunc("/wills/death-notifications", r.willHandler.NotifyDeath).Methods(http.MethodPost)

	// Client routes
	client := api.PathPrefix("").Subrouter()
	client.Use(r.authMiddleware.Authenticate)
	client.HandleFunc("/professionals/{id}", r.professionalHandler.GetProfile).Methods(http.MethodGet)
	client.HandleFunc("/matching/search", r.matchingHandler.Search).Methods(http.MethodPost)
	client.HandleFunc("/appointments", r.appointmentHandler.GetMy).Methods(http.MethodGet)
	client.HandleFunc("/appointments/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	client.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	client.HandleFunc("/wills", r.willHandler.GetMy).Methods(http.MethodGet)
	client.HandleFunc("/wills/{id}", r.willHandler.GetByID).Methods(http.MethodGet)

	clientOnly := api.PathPrefix("").Subrouter()
	clientOnly.Use(r.authMiddleware.Authenticate)
	clientOnly.Use(middleware.RequireClient)
	clientOnly.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)

	// Professional routes
	professional := api.PathPrefix("").Subrouter()
	professional.Use(r.authMiddleware.Authenticate)
	professional.Use(middleware.RequireProfessional)
	professional.HandleFunc("/professionals/me", r.professionalHandler.GetMyProfile).Methods(http.MethodGet)
	professional.HandleFunc("/professionals/me", r.professionalHandler.UpdateMyProfile).Methods(http.MethodPut)
	professional.HandleFunc("/professionals/me/template", r.professionalHandler.GetMyTemplate).Methods(http.MethodGet)
	professional.HandleFunc("/professionals/me/template", r.professionalHandler.SetTemplate).Methods(http.MethodPut)
	professional.HandleFunc("/professionals/me/blocked-dates", r.professionalHandler.GetMyBlockedDates).Methods(http.MethodGet)
	professional.HandleFunc("/professionals/me/blocked-dates", r.professionalHandler.AddBlockedDate).Methods(http.MethodPost)
	professional.HandleFunc("/professionals/me/blocked-dates/{id}", r.professionalHandler.DeleteBlockedDate).Methods(http.MethodDelete)
	professional.HandleFunc("/appointments/{id}/confirm", r.appointmentHandler.Confirm).Methods(http.MethodPost)
	professional.HandleFunc("/appointments/{id}/reject", r.appointmentHandler.Reject).Methods(http.MethodPost)
	professional.HandleFunc("/appointments/{id}/begin", r.appointmentHandler.Begin).Methods(http.MethodPost)
	professional.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)

	// Close-out may come from the responsible professional or an admin
	execution := api.PathPrefix("").Subrouter()
	execution.Use(r.authMiddleware.Authenticate)
	execution.Use(middleware.RequireAdminOrProfessional)
	execution.HandleFunc("/wills/{id}/executed", r.willHandler.MarkExecuted).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/professionals", r.professionalHandler.ListProfessionals).Methods(http.MethodGet)
	admin.HandleFunc("/professionals/{id}/approval", r.professionalHandler.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/professionals/{id}/deactivate", r.professionalHandler.Deactivate).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
