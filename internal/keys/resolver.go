// Package keys resolves and validates LLM provider credentials. Users may
// bring their own key per provider; the platform key from configuration is
// the fallback.
package keys

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/crewboard/crewboard/internal/config"
	"github.com/crewboard/crewboard/internal/provider"
	"github.com/crewboard/crewboard/internal/secrets"
	"github.com/crewboard/crewboard/internal/store"
)

// Source identifies where a resolved credential came from.
type Source string

const (
	SourceUser     Source = "user"
	SourcePlatform Source = "platform"
)

// ErrNoCredential is returned when neither a valid user key nor a platform
// key is available for the requested provider.
var ErrNoCredential = errors.New("no credential available")

// Resolution is the outcome of a credential lookup.
type Resolution struct {
	Key     string
	APIBase string
	Source  Source
}

// Resolver decides which API key an agent run uses.
type Resolver struct {
	store  *store.Store
	cipher *secrets.Cipher
	cfg    *config.Config
}

// NewResolver builds a resolver over the credential store.
func NewResolver(st *store.Store, cipher *secrets.Cipher, cfg *config.Config) *Resolver {
	return &Resolver{store: st, cipher: cipher, cfg: cfg}
}

// Resolve picks a credential for the (user, provider kind) pair. A user key
// is used only when its status is VALID; anything else falls through to the
// platform key. A stored key that fails to decrypt is treated as absent.
func (r *Resolver) Resolve(kind provider.Kind, userID string) (*Resolution, error) {
	if userID != "" {
		rec, err := r.store.GetApiKey(userID, string(kind))
		switch {
		case errors.Is(err, store.ErrNotFound):
			// fall through to platform key
		case err != nil:
			return nil, fmt.Errorf("load user key: %w", err)
		case rec.Status == store.KeyStatusValid:
			plain, derr := r.cipher.DecryptString(rec.EncryptedKey)
			if derr != nil {
				slog.Warn("stored key failed to decrypt, falling back to platform key",
					"user_id", userID, "provider", kind, "error", derr)
			} else {
				return &Resolution{Key: plain, APIBase: r.apiBase(kind), Source: SourceUser}, nil
			}
		}
	}

	platformKey := r.platformKey(kind)
	if platformKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoCredential, kind)
	}
	return &Resolution{Key: platformKey, APIBase: r.apiBase(kind), Source: SourcePlatform}, nil
}

func (r *Resolver) platformKey(kind provider.Kind) string {
	switch kind {
	case provider.KindAnthropic:
		return r.cfg.Providers.Anthropic.APIKey
	case provider.KindOpenAI:
		return r.cfg.Providers.OpenAI.APIKey
	default:
		return ""
	}
}

func (r *Resolver) apiBase(kind provider.Kind) string {
	switch kind {
	case provider.KindAnthropic:
		return r.cfg.Providers.Anthropic.APIBase
	case provider.KindOpenAI:
		return r.cfg.Providers.OpenAI.APIBase
	default:
		return ""
	}
}
