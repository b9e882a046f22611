package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"ledger/internal/config"
)

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantSent string
	}{
		{"ok", "?state=s1&code=abc", http.StatusOK, "abc"},
		{"provider error", "?error=access_denied", http.StatusBadRequest, ""},
		{"state mismatch", "?state=other&code=abc", http.StatusBadRequest, ""},
		{"missing code", "?state=s1", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			rr := httptest.NewRecorder()
			callbackHandler("s1", codeCh).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status=%d want %d", rr.Code, tt.wantCode)
			}
			select {
			case got := <-codeCh:
				if got != tt.wantSent {
					t.Errorf("code=%q want %q", got, tt.wantSent)
				}
			default:
				if tt.wantSent != "" {
					t.Errorf("no code forwarded")
				}
			}
		})
	}
}

func TestCallbackHandler_SecondCodeDoesNotBlock(t *testing.T) {
	codeCh := make(chan string, 1)
	h := callbackHandler("s", codeCh)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=c", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d", rr.Code)
		}
	}
}

func TestSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	if err := saveToken(path, tok); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm=%o want 600", perm)
	}
	b, _ := os.ReadFile(path)
	var got oauth2.Token
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.RefreshToken != "rt" {
		t.Errorf("refresh token=%q", got.RefreshToken)
	}
}

func TestClientSecretAndTokenPath(t *testing.T) {
	if _, err := clientSecret(&config.Config{}); err == nil {
		t.Error("expected error without client credentials")
	}
	b, err := clientSecret(&config.Config{GoogleOAuthClientJSON: `{"installed":{}}`})
	if err != nil || string(b) != `{"installed":{}}` {
		t.Errorf("clientSecret = %q, %v", b, err)
	}
	if got := tokenPath(&config.Config{}); got != "token.json" {
		t.Errorf("tokenPath default = %q", got)
	}
	if got := tokenPath(&config.Config{GoogleOAuthTokenFile: "/x/t.json"}); got != "/x/t.json" {
		t.Errorf("tokenPath = %q", got)
	}
}
