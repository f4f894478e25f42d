// Package http contains the HTTP handlers for the reconciliation API.
package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "stationrecon/internal/errors"
	"stationrecon/internal/parser"
	"stationrecon/internal/services"
	"stationrecon/pkg/contracts/domain"
)

// validate is shared across handlers; validator.Validate is concurrency-safe.
var validate = validator.New()

// InventoryHandler serves the upload, inventory, compare and missing-stations
// endpoints.
type InventoryHandler struct {
	service     *services.InventoryService
	maxFileSize int64
	logger      *slog.Logger
}

// NewInventoryHandler creates the inventory handler.
func NewInventoryHandler(service *services.InventoryService, maxFileSize int64, logger *slog.Logger) *InventoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryHandler{service: service, maxFileSize: maxFileSize, logger: logger}
}

// Routes returns the router for the inventory API.
func (h *InventoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/inventory", func(r chi.Router) {
		r.Delete("/", h.Reset)
		r.Route("/{source}", func(r chi.Router) {
			r.Post("/", h.Upload)
			r.Get("/", h.Inventory)
		})
	})
	r.Get("/compare", h.Compare)
	r.Route("/missing-stations", func(r chi.Router) {
		r.Get("/", h.MissingStations)
		r.Get("/export", h.ExportMissingStations)
	})
	return r
}

// uploadResponse summarizes an accepted upload.
type uploadResponse struct {
	Success  bool          `json:"success"`
	Source   domain.Source `json:"source"`
	Stations int           `json:"stations"`
}

// Upload handles POST /api/inventory/{source}. The spreadsheet arrives as the
// multipart field "file".
func (h *InventoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	source, ok := h.sourceParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(fmt.Errorf("expected multipart form with a file field: %w", err)))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(errors.New("missing file field")))
		return
	}
	defer file.Close()

	inv, err := h.service.Upload(r.Context(), source, header.Filename, header.Size, file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, uploadResponse{Success: true, Source: inv.Source, Stations: len(inv.Stations)})
}

// Inventory handles GET /api/inventory/{source}.
func (h *InventoryHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	source, ok := h.sourceParam(w, r)
	if !ok {
		return
	}
	inv, err := h.service.Inventory(r.Context(), source)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, inv)
}

// Compare handles GET /api/compare.
func (h *InventoryHandler) Compare(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Compare(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// missingStationsResponse wraps the report rows with a count.
type missingStationsResponse struct {
	Count int                        `json:"count"`
	Rows  []domain.MissingStationRow `json:"rows"`
}

// MissingStations handles GET /api/missing-stations.
func (h *InventoryHandler) MissingStations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MissingStations(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, missingStationsResponse{Count: len(rows), Rows: rows})
}

// ExportMissingStations handles GET /api/missing-stations/export, answering
// with an xlsx attachment. The workbook is buffered so a build failure can
// still produce a JSON error instead of a truncated attachment.
func (h *InventoryHandler) ExportMissingStations(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := h.service.ExportMissingStations(r.Context(), &buf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export stream interrupted", slog.String("error", err.Error()))
	}
}

// Reset handles DELETE /api/inventory.
func (h *InventoryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		apierrors.WriteError(w, apierrors.FileSystemError("reset", err))
		return
	}
	render.JSON(w, r, map[string]any{"success": true})
}

// sourceParam extracts and validates the {source} path parameter.
func (h *InventoryHandler) sourceParam(w http.ResponseWriter, r *http.Request) (domain.Source, bool) {
	raw := chi.URLParam(r, "source")
	if err := validate.Var(raw, "required,oneof=asset_inventory hydex"); err != nil {
		apierrors.WriteError(w, apierrors.ErrInvalidSource)
		return "", false
	}
	return domain.Source(raw), true
}

// writeServiceError maps service errors onto the API error surface.
func (h *InventoryHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidSource):
		apierrors.WriteError(w, apierrors.ErrInvalidSource)
	case errors.Is(err, services.ErrInventoryNotFound):
		apierrors.WriteError(w, apierrors.ErrInventoryNotFound)
	case errors.Is(err, services.ErrSessionIncomplete):
		apierrors.WriteError(w, apierrors.ErrSessionIncomplete)
	case parser.IsSchemaError(err):
		apierrors.WriteError(w, apierrors.SchemaErrorResponse(err))
	case services.IsUploadValidationError(err):
		apierrors.WriteError(w, apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Upload rejected", err.Error()))
	default:
		h.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
	}
}
