package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youthevents/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page=3&page_size=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"page=0&page_size=0", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page=-2&page_size=abc", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page_size=1000", domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/events?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 0, TotalPages: 0}, NewPaginationMeta(1, 20, 0))
	assert.Equal(t, 3, NewPaginationMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 41).TotalPages)
}

func TestCanonicalUUID(t *testing.T) {
	const canonical = "6f1c2f56-8a55-4c59-9a0e-6f1f5d1c0a01"
	tests := []struct {
		in     string
		wantOK bool
	}{
		{canonical, true},
		{"urn:uuid:" + canonical, true},
		{"{" + canonical + "}", true},
		{"6f1c2f568a554c599a0e6f1f5d1c0a01", true},
		{"6F1C2F56-8A55-4C59-9A0E-6F1F5D1C0A01", true},
		{"", false},
		{"urn:uuid:", false},
		{"6f1c2f56-8a55-4c59-9a0e", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalUUID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, canonical, got)
			}
		})
	}
}

func TestPathUUID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.SetPathValue("id", "6F1C2F56-8A55-4C59-9A0E-6F1F5D1C0A01")
	rr := httptest.NewRecorder()

	id, ok := PathUUID(rr, r, "id")

	require.True(t, ok)
	assert.Equal(t, "6f1c2f56-8a55-4c59-9a0e-6f1f5d1c0a01", id)

	r.SetPathValue("id", "42")
	rr = httptest.NewRecorder()
	_, ok = PathUUID(rr, r, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", body: `{"name":"Camp"}`, wantOK: true},
		{name: "empty body", body: ``, wantMsg: "request body is required"},
		{name: "validation error", body: `{"name":""}`, wantMsg: "name is required"},
		{name: "unknown field", body: `{"name":"Camp","extra":1}`, wantMsg: "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest nameRequest

			ok := DecodeAndValidate(rr, r, &dest)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "Camp", dest.Name)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMsg)
		})
	}
}
