package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &types.ValidationError{Field: "from", Message: "is required"}, want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("parse: %w", &types.ValidationError{Message: "bad"}), want: http.StatusBadRequest},
		{name: "resolution", err: &types.ResolutionError{Name: "Atlantis", Err: errors.New("no results")}, want: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Days int    `json:"days"`
	}
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "ok", body: `{"name":"Paris","days":3}`},
		{name: "syntax", body: `{"name":}`, wantField: "body"},
		{name: "truncated", body: `{"name":"Paris"`, wantField: "body"},
		{name: "wrong type", body: `{"days":"three"}`, wantField: "days"},
		{name: "unknown field", body: `{"city":"Paris"}`, wantField: "city"},
		{name: "empty", body: ``, wantField: "body"},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, wantField: "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, payload{Name: "Paris", Days: 3}, dst)
				return
			}
			var ve *types.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("dial tcp 10.0.0.3:5432: refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, false, body["success"])
}

func TestIntQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "days=5", want: 5},
		{query: "days=1", want: 1},
		{query: "days=0", wantErr: true},
		{query: "days=61", wantErr: true},
		{query: "days=x", wantErr: true},
		{query: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := IntQuery(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil), "days", 1, 60)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
