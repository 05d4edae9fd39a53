package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/cartrade/handlers"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
)

// RegisterVehicleRoutes registers lead/vehicle lifecycle routes.
func RegisterVehicleRoutes(api *mux.Router) {
	staff := []models.Role{models.RoleAdmin, models.RoleManager}

	api.HandleFunc("/vehicles", handlers.GetVehiclesHandler).Methods("GET")
	api.Handle("/vehicles", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.CreateVehicleHandler))).Methods("POST")

	api.HandleFunc("/vehicles/export", handlers.ExportVehiclesHandler).Methods("GET")

	api.HandleFunc("/vehicles/{id}", handlers.GetVehicleHandler).Methods("GET")
	api.HandleFunc("/vehicles/{id}", handlers.UpdateVehicleHandler).Methods("PUT")

	api.Handle("/vehicles/{id}/status", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.UpdateStatusHandler))).Methods("PUT")
	api.HandleFunc("/vehicles/{id}/status/history", handlers.GetStatusHistoryHandler).Methods("GET")

	api.Handle("/vehicles/{id}/checklist", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.UpdateChecklistHandler))).Methods("PUT")

	api.Handle("/vehicles/{id}/mark-ready", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.MarkReadyHandler))).Methods("PUT")
	api.Handle("/vehicles/{id}/move-to-inspection", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.MoveToInspectionHandler))).Methods("PUT")

	api.HandleFunc("/vehicles/{id}/notes", handlers.AddNoteHandler).Methods("POST")
	api.HandleFunc("/vehicles/{id}/notes/{noteId}", handlers.UpdateNoteHandler).Methods("PUT")
	api.HandleFunc("/vehicles/{id}/notes/{noteId}", handlers.DeleteNoteHandler).Methods("DELETE")

	api.Handle("/vehicles/{id}/consignment-agreement", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.GenerateAgreementHandler))).Methods("POST")
}
