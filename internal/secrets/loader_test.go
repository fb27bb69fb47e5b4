package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("RESUME_FIXER_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		errPart string
	}{
		{name: "file wins over value and env", src: Source{File: keyFile, Value: "inline", Env: "RESUME_FIXER_TEST_KEY"}, expect: "from-file"},
		{name: "value wins over env", src: Source{Value: " inline ", Env: "RESUME_FIXER_TEST_KEY"}, expect: "inline"},
		{name: "env fallback", src: Source{Env: "RESUME_FIXER_TEST_KEY"}, expect: "from-env"},
		{name: "empty file does not fall back to env", src: Source{Name: "gemini api key", File: emptyFile, Env: "RESUME_FIXER_TEST_KEY"}, errPart: "is empty"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, errPart: "reading secret from file"},
		{name: "nothing configured", src: Source{Name: "gemini api key", Env: "RESUME_FIXER_UNSET_KEY"}, errPart: "gemini api key is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
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
