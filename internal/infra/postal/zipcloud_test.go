package postal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafeadmin/config"
	deliverycontext "cafeadmin/internal/delivery/context"
	domainerrors "cafeadmin/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *zipcloudClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Postal.Endpoint = srv.URL + "/api/search"
	cfg.Postal.Timeout = time.Second

	return NewZipcloudClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).(*zipcloudClient)
}

func TestZipcloud_Hit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "1500001", r.URL.Query().Get("zipcode"))
		assert.Equal(t, "req-1", r.Header.Get(deliverycontext.HeaderXRequestID))
		_, _ = io.WriteString(w, `{"message":null,"results":[{"address1":"東京都","address2":"渋谷区","address3":"神宮前","zipcode":"1500001"}],"status":200}`)
	})

	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")
	addr, err := client.Lookup(ctx, "1500001")
	require.NoError(t, err)
	assert.Equal(t, "東京都", addr.Prefecture)
	assert.Equal(t, "渋谷区", addr.City)
	assert.Equal(t, "神宮前", addr.Town)
}

func TestZipcloud_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "no results", status: http.StatusOK, body: `{"message":null,"results":null,"status":200}`, want: domainerrors.ErrPostalNotFound},
		{name: "rejected code", status: http.StatusOK, body: `{"message":"パラメータ「郵便番号」の桁数が不正です。","results":null,"status":400}`, want: domainerrors.ErrPostalCodeInvalid},
		{name: "upstream error", status: http.StatusInternalServerError, body: ``, want: domainerrors.ErrPostalLookupFailed},
		{name: "garbage", status: http.StatusOK, body: `<html>`, want: domainerrors.ErrPostalLookupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Lookup(context.Background(), "1500001")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
