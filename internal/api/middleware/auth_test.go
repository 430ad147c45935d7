package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth("secret-key")(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid key passes", header: "Bearer secret-key", want: http.StatusNoContent},
		{name: "missing header is rejected", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme is rejected", header: "Basic secret-key", want: http.StatusUnauthorized},
		{name: "wrong key is rejected", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "case-insensitive bearer", header: "bearer secret-key", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/wardrobe/items", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
