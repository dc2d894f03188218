package lightroom

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"photo-store/domain/model"
	"photo-store/domain/repository"
	"photo-store/infrastructure/logger"
)

// TokenStore persists the connected account's tokens in a single JSON file
// and mirrors them in memory. Writes are synchronous: callers of Save can
// rely on the record being durable before their operation resolves. The file
// holds credentials and must stay out of version control.
type TokenStore struct {
	path   string
	mu     sync.Mutex
	record *model.AccountToken
}

func NewTokenStore(path string) repository.ITokenStore {
	return &TokenStore{path: path}
}

// Load reads the persisted record if it exists. An access token whose
// recorded expiry has already passed is dropped so the next request is
// forced to refresh; the refresh token survives.
func (s *TokenStore) Load() (*model.AccountToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.record = nil
			return nil, nil
		}
		return nil, err
	}

	var rec model.AccountToken
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		logger.GetLogger().WithField("expired_at", rec.ExpiresAt).Info("Stored access token already expired - dropping it, keeping refresh token")
		rec.AccessToken = ""
		rec.ExpiresAt = nil
	}
	s.record = &rec
	return s.record, nil
}

// Save overwrites the persisted record. A zero expiresIn means the issuer
// omitted an expiry; the token is then assumed valid until a 401 proves
// otherwise.
func (s *TokenStore) Save(accessToken, refreshToken string, expiresIn int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &model.AccountToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UpdatedAt:    time.Now().UTC(),
	}
	if expiresIn > 0 {
		exp := time.Now().Add(time.Duration(expiresIn) * time.Second).UTC()
		rec.ExpiresAt = &exp
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to persist account token")
		return err
	}
	s.record = rec
	return nil
}

// Clear removes the persisted record. Removing an absent record is not an
// error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.record = nil
	return nil
}

// Current returns the in-memory mirror; nil means not connected.
func (s *TokenStore) Current() *model.AccountToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	rec := *s.record
	return &rec
}
