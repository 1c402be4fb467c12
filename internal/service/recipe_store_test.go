package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/testhelpers"
	"github.com/smartchef/backend/internal/types"
)

func sampleStoredRecipe() *types.StoredRecipe {
	return &types.StoredRecipe{
		Items:  []string{"bread", "cheese"},
		Recipe: service.FallbackRecipe([]string{"bread", "cheese"}),
	}
}

func exerciseRecipeStore(t *testing.T, store service.RecipeStore) {
	ctx := context.Background()

	rec := sampleStoredRecipe()
	require.NoError(t, store.Save(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Recipe, got.Recipe)
	assert.Equal(t, rec.Items, got.Items)

	_, err = store.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, service.ErrRecipeNotFound))
}

func TestMemoryRecipeStore(t *testing.T) {
	exerciseRecipeStore(t, service.NewMemoryRecipeStore(time.Hour))
}

func TestMemoryRecipeStoreExpiry(t *testing.T) {
	store := service.NewMemoryRecipeStore(time.Millisecond)
	rec := sampleStoredRecipe()
	require.NoError(t, store.Save(context.Background(), rec))

	time.Sleep(5 * time.Millisecond)
	_, err := store.Get(context.Background(), rec.ID)
	assert.True(t, errors.Is(err, service.ErrRecipeNotFound))
}

func TestRedisRecipeStore(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	store := service.NewRedisRecipeStore(client, time.Minute)
	exerciseRecipeStore(t, store)

	rec := sampleStoredRecipe()
	require.NoError(t, store.Save(context.Background(), rec))
	ttl, err := client.TTL(context.Background(), "recipe:generated:"+rec.ID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
