package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_Unique(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestMemoryStore_ConsumeIsSingleUse(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.Create(ctx, LoginState{
		Token:     "st1",
		UserID:    "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}))

	first, err := s.Consume(ctx, "st1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "u1", first.UserID)

	second, err := s.Consume(ctx, "st1")
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestMemoryStore_ConsumeUnknown(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	got, err := s.Consume(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ExpiredEntryNotConsumable(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.Create(ctx, LoginState{
		Token:     "st1",
		UserID:    "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Millisecond),
	}))

	time.Sleep(20 * time.Millisecond)

	got, err := s.Consume(ctx, "st1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_CreateValidation(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	err := s.Create(ctx, LoginState{UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)})
	assert.Error(t, err, "missing token")

	err = s.Create(ctx, LoginState{Token: "st1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)})
	assert.Error(t, err, "already expired")
}
