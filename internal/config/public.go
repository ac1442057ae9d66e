package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Public environment variable names. These are the only values the
// application hands to client code.
const (
	KeySupabaseURL       = "NEXT_PUBLIC_SUPABASE_URL"
	KeySupabaseAnonKey   = "NEXT_PUBLIC_SUPABASE_ANON_KEY"
	KeyEnableConciliacao = "ENABLE_CONCILIACAO"
)

var publicKeys = []string{KeySupabaseURL, KeySupabaseAnonKey, KeyEnableConciliacao}

// PublicEnv is the public environment bootstrap.
//
// It is read once at startup and passed around by value. Entries is the only
// way to enumerate it, and it always returns a fresh map with exactly the
// three public keys.
type PublicEnv struct {
	SupabaseURL       string `env:"NEXT_PUBLIC_SUPABASE_URL"`
	SupabaseAnonKey   string `env:"NEXT_PUBLIC_SUPABASE_ANON_KEY"`
	EnableConciliacao string `env:"ENABLE_CONCILIACAO" default:"true"`
}

// Keys returns the public variable names in declaration order.
func Keys() []string {
	return append([]string(nil), publicKeys...)
}

// Entries returns the public variables as a key -> value map.
func (p PublicEnv) Entries() map[string]string {
	return map[string]string{
		KeySupabaseURL:       p.SupabaseURL,
		KeySupabaseAnonKey:   p.SupabaseAnonKey,
		KeyEnableConciliacao: p.EnableConciliacao,
	}
}

// ConciliacaoEnabled reports whether the reconciliation feature flag is on.
// An unparseable value counts as off.
func (p PublicEnv) ConciliacaoEnabled() bool {
	on, err := strconv.ParseBool(strings.TrimSpace(p.EnableConciliacao))
	return err == nil && on
}

// Validate checks the public values on their own.
func (p PublicEnv) Validate() error {
	return p.ValidateAgainst(nil)
}

// ValidateAgainst is Validate plus a check that no public value equals one
// of the private values (database URL, API keys).
func (p PublicEnv) ValidateAgainst(private []string) error {
	errs := p.problemsAgainst(private)
	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (p PublicEnv) problemsAgainst(private []string) []string {
	errs := p.problems()
	for _, key := range p.leaks(private) {
		errs = append(errs, fmt.Sprintf("%s must not carry a private credential", key))
	}
	return errs
}

func (p PublicEnv) problems() []string {
	var errs []string

	if p.SupabaseURL != "" {
		u, err := url.Parse(p.SupabaseURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("%s is not a valid URL: %v", KeySupabaseURL, err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Sprintf("%s must use http or https", KeySupabaseURL))
		case u.Host == "":
			errs = append(errs, fmt.Sprintf("%s must include a host", KeySupabaseURL))
		case u.User != nil:
			errs = append(errs, fmt.Sprintf("%s must not embed credentials", KeySupabaseURL))
		}
	}

	if isSecretKey(p.SupabaseAnonKey) {
		errs = append(errs, fmt.Sprintf("%s holds a secret key; use the anon (publishable) key", KeySupabaseAnonKey))
	}

	if _, err := strconv.ParseBool(strings.TrimSpace(p.EnableConciliacao)); err != nil {
		errs = append(errs, fmt.Sprintf("%s (%q) must be true or false", KeyEnableConciliacao, p.EnableConciliacao))
	}

	return errs
}

// leaks returns the public keys whose value equals one of the private values.
func (p PublicEnv) leaks(private []string) []string {
	var leaked []string
	for _, key := range publicKeys {
		v := p.Entries()[key]
		if v == "" {
			continue
		}
		for _, secret := range private {
			if secret != "" && v == secret {
				leaked = append(leaked, key)
				break
			}
		}
	}
	return leaked
}

// isSecretKey recognises Supabase keys that must never reach a browser:
// new-style "sb_secret_" keys and legacy JWTs carrying the service_role role.
func isSecretKey(key string) bool {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "sb_secret_") {
		return true
	}
	return jwtRole(key) == "service_role"
}

// jwtRole extracts the "role" claim of a JWT without verifying it.
func jwtRole(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	var claims struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	return claims.Role
}
