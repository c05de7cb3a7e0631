package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/client/v4", common.NewSilentLogger())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestRequest_DefaultHeadersAndURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/client/v4/zones" {
			t.Errorf("Expected /client/v4/zones, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "per_page=5" {
			t.Errorf("Expected query per_page=5, got %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", got)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"result":[]}`)
	})

	res, err := client.Request(context.Background(), "/zones?per_page=5", "tok-123", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.OK || res.StatusCode != http.StatusOK {
		t.Errorf("Expected OK 200, got ok=%v status=%d", res.OK, res.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := res.Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !body.Success {
		t.Errorf("Expected success=true, got %s", res.Body)
	}
}

func TestRequest_HeaderOverride(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "text/plain" {
			t.Errorf("Expected overridden Content-Type, got %q", got)
		}
		if got := r.Header.Get("X-Extra"); got != "1" {
			t.Errorf("Expected extra header, got %q", got)
		}
		writeJSON(w, http.StatusOK, `{}`)
	})

	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	header.Set("X-Extra", "1")
	if _, err := client.Request(context.Background(), "/user", "t", &RequestOptions{Header: header}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestRequest_PostBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"query":"SELECT 1","dataset":"d"}` {
			t.Errorf("Unexpected body %s", body)
		}
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})

	_, err := client.Request(context.Background(), "/accounts/a/analytics_engine/sql", "t", &RequestOptions{
		Method: http.MethodPost,
		Body:   workersQueryBody{Query: "SELECT 1", Dataset: "d"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestRequest_NonSuccessIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"success":false,"errors":[{"code":9109,"message":"bad token"}]}`)
	})

	res, err := client.Request(context.Background(), "/zones", "t", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.OK {
		t.Error("Expected OK=false for 403")
	}
	if res.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", res.StatusCode)
	}
}

func TestRequest_InvalidJSONIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.Request(context.Background(), "/zones", "t", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid JSON response") {
		t.Errorf("Expected invalid JSON message, got %q", err.Error())
	}
}

func TestRequest_EmptyBodyIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Request(context.Background(), "/zones", "t", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "empty body") {
		t.Errorf("Expected empty body message, got %q", err.Error())
	}
}

func TestRequest_ServerUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", common.NewSilentLogger())

	_, err := client.Request(context.Background(), "/zones", "t", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if te.Method != http.MethodGet || te.Path != "/zones" {
		t.Errorf("Expected GET /zones on error, got %s %s", te.Method, te.Path)
	}
}

func TestRequest_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Request(ctx, "/zones", "t", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRequest_UnmarshalableBody(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", common.NewSilentLogger())

	_, err := client.Request(context.Background(), "/x", "t", &RequestOptions{Method: http.MethodPost, Body: make(chan int)})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first message", `{"errors":[{"message":"bad token"},{"message":"second"}]}`, "bad token"},
		{"no errors", `{"success":false}`, "fallback"},
		{"empty errors", `{"errors":[]}`, "fallback"},
		{"empty message", `{"errors":[{"code":1}]}`, "fallback"},
		{"array body", `[1,2]`, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(&Result{StatusCode: 400, Body: json.RawMessage(tt.body)}, "fallback")
			if err.Message != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, err.Message)
			}
			if err.StatusCode != 400 {
				t.Errorf("Expected status 400, got %d", err.StatusCode)
			}
		})
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("https://api.cloudflare.com/client/v4/", common.NewSilentLogger())
	if c.BaseURL() != "https://api.cloudflare.com/client/v4" {
		t.Errorf("Expected trimmed base URL, got %s", c.BaseURL())
	}
}
