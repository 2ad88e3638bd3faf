package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("CAREER_TEST_SECRET", "  from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{name: "file wins", src: Source{File: writeSecret(t, " from-file\n"), Value: "inline", Env: "CAREER_TEST_SECRET"}, expect: "from-file"},
		{name: "inline before env", src: Source{Value: " inline ", Env: "CAREER_TEST_SECRET"}, expect: "inline"},
		{name: "env fallback", src: Source{Env: "CAREER_TEST_SECRET"}, expect: "from-env"},
		{name: "empty file", src: Source{Name: "gemini api key", File: writeSecret(t, "  \n")}, wantErr: "gemini api key file"},
		{name: "missing file", src: Source{File: filepath.Join(t.TempDir(), "absent")}, wantErr: "reading secret"},
		{name: "nothing configured", src: Source{Name: "openai api key", Env: "CAREER_TEST_UNSET"}, wantErr: "openai api key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadNotConfigured(t *testing.T) {
	if _, err := Load(Source{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLoadPair(t *testing.T) {
	key, secret, err := LoadPair(Source{Value: "app-key:app-secret"})
	if err != nil || key != "app-key" || secret != "app-secret" {
		t.Fatalf("unexpected pair %q %q %v", key, secret, err)
	}

	key, secret, err = LoadPair(Source{File: writeSecret(t, "app-key\napp:secret\n")})
	if err != nil || key != "app-key" || secret != "app:secret" {
		t.Fatalf("unexpected pair from lines %q %q %v", key, secret, err)
	}

	if _, _, err := LoadPair(Source{Name: "coursera credentials", Value: "only-key"}); err == nil {
		t.Fatalf("expected error for a value without a secret")
	}
}
