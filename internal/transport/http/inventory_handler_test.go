package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stationrecon/internal/config"
	"stationrecon/internal/services"
	"stationrecon/internal/session"
)

const stationCSV = `Station Number,Station Name,Cableway,Weir
08NA005,Columbia River,Yes,No
08NB012,Kootenay Lake,No,X
`

const hydexCSV = `Station ID,Station Name,Asset Type,Asset Detail,Status
08NA005,Columbia River,Weir,concrete,
09AB001,Yukon Crossing,Cableway,60m span,
`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	base := t.TempDir()
	paths := &config.PathsConfig{
		BaseDir:      base,
		SnapshotsDir: filepath.Join(base, "snapshots"),
		ReportsDir:   filepath.Join(base, "reports"),
		UploadsDir:   filepath.Join(base, "uploads"),
	}
	require.NoError(t, paths.EnsureDirectories())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore()
	inventorySvc := services.NewInventoryService(store, paths, 1<<20, nil, logger)
	healthSvc := services.NewHealthService(store)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/", NewInventoryHandler(inventorySvc, 1<<20, logger).Routes())
		r.Mount("/health", NewHealthHandler(healthSvc).Routes())
	})
	return r
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, source, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/"+source, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.ErrorCode
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, "asset_inventory", "inventory.csv", stationCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success  bool   `json:"success"`
		Source   string `json:"source"`
		Stations int    `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "asset_inventory", resp.Source)
	assert.Equal(t, 2, resp.Stations)
}

func TestUploadInvalidSource(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, "bogus", "inventory.csv", stationCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SOURCE", errorCode(t, rec))
}

func TestUploadMissingFileField(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/hydex", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
}

func TestUploadSchemaError(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, "hydex", "notes.csv", "Comment,Notes\nhello,world\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "SCHEMA_ERROR", errorCode(t, rec))
}

func TestUploadBadExtension(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, "hydex", "notes.pdf", hydexCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))
}

func TestGetInventoryNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/hydex", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "INVENTORY_NOT_FOUND", errorCode(t, rec))
}

func TestGetInventory(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "hydex", "hydex.csv", hydexCSV).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/hydex", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var inv struct {
		Source   string `json:"source"`
		Stations []struct {
			StationID string `json:"station_id"`
		} `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, "hydex", inv.Source)
	assert.Len(t, inv.Stations, 2)
}

func TestCompareRequiresBothSlots(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "asset_inventory", "inventory.csv", stationCSV).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SESSION_INCOMPLETE", errorCode(t, rec))
}

func TestCompare(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "asset_inventory", "inventory.csv", stationCSV).Code)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "hydex", "hydex.csv", hydexCSV).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Summary struct {
			StationsCompared          int `json:"stations_compared"`
			StationsWithDiscrepancies int `json:"stations_with_discrepancies"`
		} `json:"summary"`
		Details []struct {
			StationID      string   `json:"station_id"`
			MissingInLeft  []string `json:"missing_in_left"`
			MissingInRight []string `json:"missing_in_right"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	// 08NA005 is shared: asset inventory says Cableway, hydex says Weir.
	assert.Equal(t, 1, result.Summary.StationsCompared)
	assert.Equal(t, 1, result.Summary.StationsWithDiscrepancies)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "08NA005", result.Details[0].StationID)
	assert.Equal(t, []string{"Weir"}, result.Details[0].MissingInLeft)
	assert.Equal(t, []string{"Cableway"}, result.Details[0].MissingInRight)
}

func TestMissingStationsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "asset_inventory", "inventory.csv", stationCSV).Code)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "hydex", "hydex.csv", hydexCSV).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/missing-stations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
		Rows  []struct {
			StationID   string `json:"station_id"`
			StationName string `json:"station_name"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "09AB001", resp.Rows[0].StationID)
	assert.Equal(t, "Yukon Crossing", resp.Rows[0].StationName)
}

func TestExportMissingStations(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "asset_inventory", "inventory.csv", stationCSV).Code)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "hydex", "hydex.csv", hydexCSV).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/missing-stations/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "missing_stations_")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	cell, err := f.GetCellValue("Missing Stations", "A2")
	require.NoError(t, err)
	assert.Equal(t, "09AB001", cell)
}

func TestReset(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "hydex", "hydex.csv", hydexCSV).Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/inventory", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/inventory/hydex", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Status  string `json:"status"`
		Session struct {
			ReadyToCompare bool `json:"ready_to_compare"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.False(t, status.Session.ReadyToCompare)
}
