package core

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// serverPort returns the port an httptest.Server is listening on.
func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	if err != nil {
		t.Fatalf("Failed to split listener address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Failed to parse port: %v", err)
	}
	return port
}

func TestSetupHealthCheck(t *testing.T) {
	mux := http.NewServeMux()
	SetupHealthCheck(mux)

	t.Run("GET returns ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		resp := w.Result()
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if string(body) != "ok" {
			t.Errorf("Expected response body “ok”, got %q", string(body))
		}
	})

	t.Run("only accepts GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, "/healthcheck", nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status code %d for %s method, got %d", http.StatusMethodNotAllowed, method, w.Code)
			}
		}
	})
}

func TestVerifyHealthCheck(t *testing.T) {
	t.Run("healthy server", func(t *testing.T) {
		mux := http.NewServeMux()
		SetupHealthCheck(mux)
		server := httptest.NewServer(mux)
		defer server.Close()

		if exitCode := VerifyHealthCheck("127.0.0.1", serverPort(t, server)); exitCode != 0 {
			t.Errorf("Expected exit code 0, got %d", exitCode)
		}
	})

	t.Run("server returns error status", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "error", http.StatusInternalServerError)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		if exitCode := VerifyHealthCheck("127.0.0.1", serverPort(t, server)); exitCode != 1 {
			t.Errorf("Expected exit code 1 when server returns error, got %d", exitCode)
		}
	})

	t.Run("server not running", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		port := serverPort(t, server)
		server.Close()

		if exitCode := VerifyHealthCheck("127.0.0.1", port); exitCode != 1 {
			t.Errorf("Expected exit code 1 when server is not running, got %d", exitCode)
		}
	})
}
