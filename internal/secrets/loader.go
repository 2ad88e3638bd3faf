// Package secrets resolves API keys and credentials from files, inline
// configuration values or the environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source yields a value.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes where a secret may come from. File wins over Value, and
// Value wins over Env.
type Source struct {
	// Name is used in error messages.
	Name  string
	Value string
	File  string
	// Env names an environment variable holding the secret itself.
	Env string
}

func (s Source) name() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// Load returns the trimmed secret.
func Load(src Source) (string, error) {
	name := src.name()

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotConfigured, name)
}

// LoadPair resolves a "key:secret" credential. The two parts may also be on
// separate lines.
func LoadPair(src Source) (string, string, error) {
	raw, err := Load(src)
	if err != nil {
		return "", "", err
	}

	sep := ":"
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}

	key, secret, ok := strings.Cut(raw, sep)
	key, secret = strings.TrimSpace(key), strings.TrimSpace(secret)
	if !ok || key == "" || secret == "" {
		return "", "", fmt.Errorf("%s must contain a key and a secret", src.name())
	}

	return key, secret, nil
}
