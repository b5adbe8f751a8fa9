// Package auth keeps the bearer token sent to HTTP data sources.
//
// A token comes from CSVBOARD_TOKEN or from ~/.csvboard/credentials.json.
// File tokens may carry an expiry, taken from --expires-in at login or from
// the JWT "exp" claim; an expired file token is not sent.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvToken = "CSVBOARD_TOKEN"

	credDirName  = ".csvboard"
	credFileName = "credentials.json"
)

// Where a token was found.
const (
	FromEnv  = "env"
	FromFile = "file"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Expired reports whether the token has a recorded expiry at or before at.
func (ti *TokenInfo) Expired(at time.Time) bool {
	return ti.ExpiresAt != nil && !at.Before(*ti.ExpiresAt)
}

// now is swapped in tests.
var now = time.Now

func credPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, credDirName, credFileName), nil
}

// Get returns the configured token, expired or not, or nil when there is
// none. The environment wins over the credentials file.
func Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: FromEnv}, nil
	}

	p, err := credPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	ti := &TokenInfo{}
	if err := json.Unmarshal(b, ti); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", p, err)
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = FromFile
	return ti, nil
}

// Active is Get without expired tokens.
func Active() (*TokenInfo, error) {
	ti, err := Get()
	if err != nil || ti == nil {
		return nil, err
	}
	if ti.Expired(now()) {
		return nil, nil
	}
	return ti, nil
}

// Set writes token to the credentials file, readable by the owner only.
// With no explicit expiry, a JWT "exp" claim is used when present.
func Set(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return errors.New("empty token")
	}
	if expires == nil {
		expires = jwtExpiry(token)
	}

	p, err := credPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	b, err := json.MarshalIndent(TokenInfo{
		Token:     token,
		Source:    FromFile,
		CreatedAt: now().UTC(),
		ExpiresAt: expires,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Delete removes the credentials file. A missing file is fine.
func Delete() error {
	p, err := credPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Source adapts Active to the token callback HTTP fetchers take. Lookup
// errors and expired tokens read as "no token".
func Source() func() string {
	return func() string {
		ti, err := Active()
		if err != nil || ti == nil {
			return ""
		}
		return ti.Token
	}
}

// Payload decodes the unsigned payload of a JWT. Opaque tokens report false.
func Payload(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", false
	}
	return string(dec), true
}

func jwtExpiry(token string) *time.Time {
	p, ok := Payload(token)
	if !ok {
		return nil
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if json.Unmarshal([]byte(p), &claims) != nil || claims.Exp <= 0 {
		return nil
	}
	t := time.Unix(claims.Exp, 0).UTC()
	return &t
}

func stripBearer(s string) string {
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
