package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/smartchef/backend/internal/types"
)

// ErrRecipeNotFound is returned when a stored recipe is missing or expired.
var ErrRecipeNotFound = errors.New("recipe not found")

const recipeKeyPrefix = "recipe:generated:"

// RedisRecipeStore keeps generated recipes in Redis with a TTL.
type RedisRecipeStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisRecipeStore creates a RedisRecipeStore
func NewRedisRecipeStore(client *redis.Client, ttl time.Duration) *RedisRecipeStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRecipeStore{redis: client, ttl: ttl}
}

func recipeKey(id uuid.UUID) string {
	return fmt.Sprintf("%s%s", recipeKeyPrefix, id)
}

// Save assigns an ID and timestamp when missing and stores rec.
func (s *RedisRecipeStore) Save(ctx context.Context, rec *types.StoredRecipe) error {
	stamp(rec)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := s.redis.Set(ctx, recipeKey(rec.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save recipe to Redis: %w", err)
	}
	return nil
}

// Get retrieves a stored recipe from Redis
func (s *RedisRecipeStore) Get(ctx context.Context, id uuid.UUID) (*types.StoredRecipe, error) {
	data, err := s.redis.Get(ctx, recipeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe from Redis: %w", err)
	}

	var rec types.StoredRecipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &rec, nil
}

// MemoryRecipeStore is the in-process store used when Redis is disabled.
type MemoryRecipeStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	rec     types.StoredRecipe
	expires time.Time
}

// NewMemoryRecipeStore creates a MemoryRecipeStore
func NewMemoryRecipeStore(ttl time.Duration) *MemoryRecipeStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryRecipeStore{ttl: ttl, now: time.Now, entries: make(map[uuid.UUID]memoryEntry)}
}

func (s *MemoryRecipeStore) Save(ctx context.Context, rec *types.StoredRecipe) error {
	stamp(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
	s.entries[rec.ID] = memoryEntry{rec: *rec, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryRecipeStore) Get(ctx context.Context, id uuid.UUID) (*types.StoredRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || s.now().After(e.expires) {
		return nil, ErrRecipeNotFound
	}
	rec := e.rec
	return &rec, nil
}

func stamp(rec *types.StoredRecipe) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
