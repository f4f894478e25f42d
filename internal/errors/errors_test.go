package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrSessionIncomplete)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "SESSION_INCOMPLETE", resp.Error.ErrorCode)
}

func TestSchemaErrorResponse(t *testing.T) {
	apiErr := SchemaErrorResponse(errors.New("could not detect a station id column"))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "SCHEMA_ERROR", apiErr.ErrorCode)
	assert.Equal(t, "could not detect a station id column", apiErr.Details)
}

func TestErrValidation(t *testing.T) {
	apiErr := ErrValidation("source", "must be asset_inventory or hydex")
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	detail, ok := apiErr.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "source", detail.Field)
}
