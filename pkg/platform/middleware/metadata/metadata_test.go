package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"verifyflow/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "first forwarded hop", header: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, want: "203.0.113.9"},
		{name: "real ip header", header: map[string]string{"X-Real-IP": " 198.51.100.4 "}, want: "198.51.100.4"},
		{name: "remote addr ipv4", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote addr ipv6", remote: "[::1]:5555", want: "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadataMiddleware(t *testing.T) {
	const chromeLinux = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	var gotUA, gotDevice string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = requestcontext.UserAgent(r.Context())
		gotDevice = requestcontext.Device(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", chromeLinux)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, chromeLinux, gotUA)
	assert.Contains(t, gotDevice, "Chrome")
	assert.Equal(t, "", DeviceSummary(""))
}
