package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/label-ocr-api/internal/handlers"
	"github.com/BerylCAtieno/label-ocr-api/internal/middleware"
	"github.com/BerylCAtieno/label-ocr-api/internal/services"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

func NewRouter(labelService services.LabelService, maxRequestBytes int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	labelHandler := handlers.NewLabelHandler(labelService, maxRequestBytes, logger)

	// Upload page and endpoint
	r.HandleFunc("/", labelHandler.UploadPage).Methods(http.MethodGet)
	r.HandleFunc("/upload", labelHandler.UploadPage).Methods(http.MethodGet)
	r.HandleFunc("/upload/OCR", labelHandler.Upload).Methods(http.MethodPost, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Job history
	api.HandleFunc("/jobs", labelHandler.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", labelHandler.GetJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}/records.xlsx", labelHandler.JobRecords).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}/label", labelHandler.JobLabel).Methods(http.MethodGet)

	return r
}
