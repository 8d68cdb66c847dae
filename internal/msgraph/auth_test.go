package msgraph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "tokens.json")

	tok, err := loadToken(path)
	if err != nil || tok != nil {
		t.Fatalf("loadToken on missing file = %v, %v; want nil, nil", tok, err)
	}

	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)}
	if err := saveToken(path, want); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	got, err := loadToken(path)
	if err != nil {
		t.Fatalf("loadToken: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("loadToken = %+v, want %+v", got, want)
	}
}

func TestLoadTokenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadToken(path); err == nil {
		t.Fatal("expected error for corrupt token file")
	}
}

func TestOAuth2ConfigEndpoints(t *testing.T) {
	cfg := oauth2Config("common", "client")
	if cfg.Endpoint.TokenURL != "https://login.microsoftonline.com/common/oauth2/v2.0/token" {
		t.Errorf("TokenURL = %q", cfg.Endpoint.TokenURL)
	}
	if cfg.Endpoint.DeviceAuthURL != "https://login.microsoftonline.com/common/oauth2/v2.0/devicecode" {
		t.Errorf("DeviceAuthURL = %q", cfg.Endpoint.DeviceAuthURL)
	}
}
