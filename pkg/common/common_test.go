package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, PageSize: 20, Order: "desc"}},
		{"explicit", "page=3&page_size=5&sort=name&order=asc", PaginationParams{Page: 3, PageSize: 5, Sort: "name", Order: "asc"}},
		{"capped", "page_size=500", PaginationParams{Page: 1, PageSize: MaxPageSize, Order: "desc"}},
		{"garbage", "page=-1&page_size=x&order=sideways", PaginationParams{Page: 1, PageSize: 20, Order: "desc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/topologies?"+tt.query, nil)
			assert.Equal(t, tt.want, ExtractPaginationParams(r))
		})
	}
}

func TestWindowAndMeta(t *testing.T) {
	p := PaginationParams{Page: 2, PageSize: 3}
	start, end := p.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = PaginationParams{Page: 4, PageSize: 3}.Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	meta := BuildPaginationMeta(2, 3, 7)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestRespondJSON_Envelope(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/canvas", nil)
	r.Header.Set(middleware.RequestIDHeader, "req-7")
	w := httptest.NewRecorder()

	RespondJSON(w, r, http.StatusCreated, map[string]string{"id": "n1"})

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    MetaInfo          `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "n1", body.Data["id"])
	assert.Equal(t, "req-7", body.Meta.RequestID)
	assert.Equal(t, APIVersion, body.Meta.Version)
}

func TestParseJSONBody(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"feeder"}`))
	require.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &v, 0))
	assert.Equal(t, "feeder", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &v, 0))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	assert.Error(t, ParseJSONBody(httptest.NewRecorder(), r, &v, 0))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	assert.Error(t, ParseJSONBody(httptest.NewRecorder(), r, &v, 16))
}
