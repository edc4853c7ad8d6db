package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/services"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

const (
	DefaultMaxRequestBytes = 50 << 20
	UploadField            = "pdf"

	msgNoFile        = "ไม่พบไฟล์ PDF"
	msgPDFOnly       = "รองรับเฉพาะไฟล์ PDF เท่านั้น"
	msgTooLarge      = "ไฟล์ใหญ่เกินกำหนด กรุณาใช้ไฟล์ที่เล็กกว่า"
	msgInvalidForm   = "ข้อมูลที่ส่งมาไม่ถูกต้อง"
	msgIDRequired    = "กรุณาระบุรหัสงาน"
	msgInternalError = "เกิดข้อผิดพลาดในระบบ กรุณาลองใหม่อีกครั้ง"
)

//go:embed static/upload.html
var staticFS embed.FS

type LabelHandler struct {
	service         services.LabelService
	maxRequestBytes int64
	logger          *utils.Logger
}

func NewLabelHandler(service services.LabelService, maxRequestBytes int64, logger *utils.Logger) *LabelHandler {
	if maxRequestBytes <= 0 {
		maxRequestBytes = DefaultMaxRequestBytes
	}
	return &LabelHandler{
		service:         service,
		maxRequestBytes: maxRequestBytes,
		logger:          logger,
	}
}

// UploadPage serves the browser upload form.
func (h *LabelHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/upload.html")
	if err != nil {
		h.respondError(w, utils.NewInternalError(msgInternalError), time.Now())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Upload accepts one PDF in the multipart field "pdf" and answers with the
// merged source plus label document as an attachment.
func (h *LabelHandler) Upload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.ContentLength > h.maxRequestBytes {
		h.respondError(w, utils.NewBadRequestError(msgTooLarge), start)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError(msgTooLarge), start)
			return
		}
		h.respondError(w, utils.NewBadRequestError(msgInvalidForm), start)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		h.respondError(w, utils.NewBadRequestError(msgNoFile), start)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"size", header.Size,
		"content_type", contentType)

	if !isPDF(contentType) {
		h.respondError(w, utils.NewBadRequestError(msgPDFOnly), start)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, utils.NewInternalError(msgInternalError), start)
		return
	}

	result, err := h.service.Process(r.Context(), &models.SourceDocument{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Data:        data,
	})
	if err != nil {
		h.respondError(w, err, start)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Job-ID", result.JobID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.PDF); err != nil {
		h.logger.Warn("Failed to write label response", "job_id", result.JobID, "error", err)
	}
}

func (h *LabelHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(w, utils.NewBadRequestError("limit ต้องเป็นจำนวนเต็มบวก"), time.Now())
			return
		}
		limit = n
	}

	jobs, err := h.service.ListJobs(r.Context(), limit)
	if err != nil {
		h.respondError(w, err, time.Now())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *LabelHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError(msgIDRequired), time.Now())
		return
	}

	job, err := h.service.GetJob(r.Context(), id)
	if err != nil {
		h.respondError(w, err, time.Now())
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

func (h *LabelHandler) JobRecords(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.service.JobRecordsXLSX(r.Context(), id)
	if err != nil {
		h.respondError(w, err, time.Now())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_records.xlsx"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *LabelHandler) JobLabel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, name, err := h.service.JobLabel(r.Context(), id)
	if err != nil {
		h.respondError(w, err, time.Now())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/pdf"
}

func (h *LabelHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

type errorResponse struct {
	Error            string `json:"error"`
	Message          string `json:"message"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
}

func (h *LabelHandler) respondError(w http.ResponseWriter, err error, start time.Time) {
	resp := errorResponse{
		Error:            utils.CodeInternal,
		Message:          msgInternalError,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}
	status := http.StatusInternalServerError

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		resp.Error = appErr.Code
		resp.Message = appErr.Message
	}

	h.logger.Error("Request error", "status", status, "code", resp.Error, "error", err)

	h.respondJSON(w, status, resp)
}
