// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"errors"
	"strings"
)

var (
	// ErrMissingCredential means no API key was configured.
	ErrMissingCredential = errors.New("API key is not configured")

	// ErrPlaceholderCredential means the API key is a template value
	// copied from documentation.
	ErrPlaceholderCredential = errors.New("API key is a placeholder value")
)

// placeholderMarkers are matched case-insensitively as substrings.
var placeholderMarkers = []string{
	"SUA_CHAVE_API_DO_GEMINI_AQUI",
	"YOUR_API_KEY",
	"YOUR_GEMINI_API_KEY",
	"YOUR_OPENAI_API_KEY",
	"INSERT_API_KEY",
	"<API_KEY>",
}

// placeholderExact are whole-value placeholders, matched case-insensitively.
var placeholderExact = []string{"changeme", "xxx", "todo", "api_key", "apikey"}

// ValidateCredential reports whether key looks usable. It never contacts
// the provider.
func ValidateCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingCredential
	}
	upper := strings.ToUpper(key)
	for _, m := range placeholderMarkers {
		if strings.Contains(upper, m) {
			return ErrPlaceholderCredential
		}
	}
	for _, p := range placeholderExact {
		if strings.EqualFold(key, p) {
			return ErrPlaceholderCredential
		}
	}
	return nil
}
