package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServeWebManifest(t *testing.T) {
	mux := http.NewServeMux()
	ServeWebManifest(mux, "Shrink", "/", "#0b7285")

	t.Run("GET returns a valid manifest", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app.webmanifest", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/manifest+json" {
			t.Errorf("Expected Content-Type %q, got %q", "application/manifest+json", ct)
		}

		var manifest struct {
			Name        string `json:"name"`
			StartURL    string `json:"start_url"`
			ThemeColor  string `json:"theme_color"`
			ShareTarget struct {
				Action string `json:"action"`
				Method string `json:"method"`
				Params struct {
					Files []struct {
						Name string `json:"name"`
					} `json:"files"`
				} `json:"params"`
			} `json:"share_target"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &manifest); err != nil {
			t.Fatalf("Failed to parse manifest JSON: %v\nBody: %s", err, w.Body.String())
		}

		if manifest.Name != "Shrink" || manifest.StartURL != "/" || manifest.ThemeColor != "#0b7285" {
			t.Errorf("Unexpected manifest fields: %+v", manifest)
		}
		if manifest.ShareTarget.Action != "/compress" || manifest.ShareTarget.Method != "POST" {
			t.Errorf("Expected share target POST /compress, got %s %s", manifest.ShareTarget.Method, manifest.ShareTarget.Action)
		}
		if len(manifest.ShareTarget.Params.Files) != 1 || manifest.ShareTarget.Params.Files[0].Name != "image" {
			t.Errorf("Expected share target to send the “image” field, got %+v", manifest.ShareTarget.Params.Files)
		}
	})

	t.Run("POST method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/app.webmanifest", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status code %d, got %d", http.StatusMethodNotAllowed, w.Code)
		}
	})
}
