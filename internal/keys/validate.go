package keys

import (
	"context"
	"fmt"
	"time"

	"github.com/crewboard/crewboard/internal/provider"
	"github.com/crewboard/crewboard/internal/secrets"
	"github.com/crewboard/crewboard/internal/store"
)

// providerFactory builds a client for validation calls. Overridable in tests.
type providerFactory func(kind provider.Kind, apiKey, apiBase string) (provider.LLMProvider, error)

// Manager saves and validates user credentials.
type Manager struct {
	store      *store.Store
	cipher     *secrets.Cipher
	newClient  providerFactory
	apiBaseFor func(kind provider.Kind) string
}

// NewManager builds a credential manager.
func NewManager(st *store.Store, cipher *secrets.Cipher, resolver *Resolver) *Manager {
	return &Manager{
		store:      st,
		cipher:     cipher,
		newClient:  provider.New,
		apiBaseFor: resolver.apiBase,
	}
}

// Save encrypts and stores a user key, then validates it against the
// provider. The row is written first so a validation outage still leaves the
// key saved in PENDING.
func (m *Manager) Save(ctx context.Context, userID string, kind provider.Kind, plainKey string) (*store.ApiKey, error) {
	blob, err := m.cipher.EncryptString(plainKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}
	rec := &store.ApiKey{
		UserID:       userID,
		Provider:     string(kind),
		EncryptedKey: blob,
		Last4:        secrets.Last4(plainKey),
		Status:       store.KeyStatusPending,
	}
	if err := m.store.UpsertApiKey(rec); err != nil {
		return nil, err
	}
	if err := m.Validate(ctx, userID, kind); err != nil {
		return nil, err
	}
	return m.store.GetApiKey(userID, string(kind))
}

// Validate decrypts the stored key and performs a read-only models call.
// Success marks the key VALID; a provider rejection marks it INVALID with
// the upstream error text stored verbatim.
func (m *Manager) Validate(ctx context.Context, userID string, kind provider.Kind) error {
	rec, err := m.store.GetApiKey(userID, string(kind))
	if err != nil {
		return err
	}
	plain, err := m.cipher.DecryptString(rec.EncryptedKey)
	if err != nil {
		return m.store.SetApiKeyStatus(userID, string(kind), store.KeyStatusInvalid,
			fmt.Sprintf("stored key unreadable: %v", err))
	}

	client, err := m.newClient(kind, plain, m.apiBaseFor(kind))
	if err != nil {
		return err
	}
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := client.ListModels(checkCtx); err != nil {
		return m.store.SetApiKeyStatus(userID, string(kind), store.KeyStatusInvalid, err.Error())
	}
	return m.store.SetApiKeyStatus(userID, string(kind), store.KeyStatusValid, "")
}
