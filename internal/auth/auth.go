package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

// Identity names the caller behind a shared key.
type Identity struct {
	Client string
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Identity, bool)
}

type staticKey struct {
	secret   []byte
	identity Identity
}

type StaticAPIKeyValidator struct {
	keys []staticKey
}

// NewStaticAPIKeyValidator parses a comma separated list of keys. Each entry
// is either a bare secret or client:secret.
func NewStaticAPIKeyValidator(spec string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return validator, nil
	}

	for i, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		client := fmt.Sprintf("key-%d", i+1)
		secret := entry
		if name, rest, ok := strings.Cut(entry, ":"); ok {
			client = strings.TrimSpace(name)
			secret = strings.TrimSpace(rest)
			if client == "" || secret == "" {
				return nil, fmt.Errorf("invalid static key entry %q: expected secret or client:secret", entry)
			}
		}
		validator.keys = append(validator.keys, staticKey{
			secret:   []byte(secret),
			identity: Identity{Client: client},
		})
	}
	return validator, nil
}

func (v *StaticAPIKeyValidator) Len() int {
	return len(v.keys)
}

// Validate compares against every configured key so timing does not reveal
// which one matched.
func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Identity, bool) {
	candidate := []byte(apiKey)
	var (
		matched Identity
		found   bool
	)
	for _, key := range v.keys {
		if subtle.ConstantTimeCompare(candidate, key.secret) == 1 && !found {
			matched = key.identity
			found = true
		}
	}
	return matched, found
}
