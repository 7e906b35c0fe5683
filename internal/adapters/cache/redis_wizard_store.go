package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

// RedisWizardStore keeps in-flight registration drafts as JSON blobs.
// The Redis TTL is the only expiry mechanism; there is no sweeper.
type RedisWizardStore struct {
	client *redis.Client
}

// NewRedisWizardStore creates the registration draft cache adapter.
func NewRedisWizardStore(client *redis.Client) *RedisWizardStore {
	return &RedisWizardStore{client: client}
}

var _ ports.WizardStore = (*RedisWizardStore)(nil)

func wizardKey(token string) string {
	return "reg:draft:" + token
}

func (s *RedisWizardStore) Put(ctx context.Context, token string, draft domain.RegistrationDraft, ttl time.Duration) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.client.Set(ctx, wizardKey(token), payload, ttl).Err()
}

func (s *RedisWizardStore) Get(ctx context.Context, token string) (*domain.RegistrationDraft, error) {
	raw, err := s.client.Get(ctx, wizardKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var draft domain.RegistrationDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisWizardStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, wizardKey(token)).Err()
}
