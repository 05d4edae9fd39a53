package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/cartrade/handlers"
	"p9e.in/cartrade/middleware"
	"p9e.in/cartrade/models"
)

// RegisterDocumentRoutes registers attachment and cost-evidence routes.
func RegisterDocumentRoutes(api *mux.Router) {
	staff := []models.Role{models.RoleAdmin, models.RoleManager}
	adminOnly := []models.Role{models.RoleAdmin}

	api.HandleFunc("/vehicles/{id}/documents", handlers.GetDocumentsHandler).Methods("GET")
	api.Handle("/vehicles/{id}/documents", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.UploadDocumentsHandler))).Methods("POST")
	api.Handle("/vehicles/{id}/documents/{docId}", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.DeleteDocumentHandler))).Methods("DELETE")

	api.HandleFunc("/vehicles/{id}/invoices", handlers.GetInvoicesHandler).Methods("GET")
	api.Handle("/vehicles/{id}/invoices", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.CreateInvoiceHandler))).Methods("POST")

	api.Handle("/vehicles/{id}/invoices/{invoiceId}/evidence/{costType}", middleware.RequireRole(staff,
		http.HandlerFunc(handlers.UploadCostEvidenceHandler))).Methods("POST")
	api.Handle("/vehicles/{id}/invoices/{invoiceId}/evidence/{costType}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(handlers.DeleteCostEvidenceHandler))).Methods("DELETE")
}
