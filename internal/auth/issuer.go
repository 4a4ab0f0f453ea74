package auth

import (
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs session tokens.
type Issuer struct {
	cfg Config
	ttl time.Duration
	now func() time.Time
}

// NewIssuer constructs an Issuer. A non-positive ttl means 24 hours.
func NewIssuer(cfg Config, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{cfg: cfg, ttl: ttl, now: time.Now}
}

// Issue returns a signed HS256 token for the user and its expiry.
func (i *Issuer) Issue(subject, email, name string, scopes ...string) (string, time.Time, error) {
	now := i.now().UTC()
	expires := now.Add(i.ttl)
	sorted := append([]string(nil), scopes...)
	sort.Strings(sorted)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":    i.cfg.Issuer,
		"sub":    subject,
		"email":  email,
		"name":   name,
		"scopes": sorted,
		"iat":    now.Unix(),
		"exp":    expires.Unix(),
	})
	signed, err := token.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}
