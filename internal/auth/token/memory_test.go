package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(userID, subject, accessToken string) Record {
	now := time.Now()
	return Record{
		UserID:      userID,
		Subject:     subject,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Hour),
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, record("u1", "s1", "at1")))
	require.NoError(t, s.Upsert(ctx, record("u1", "s1", "at2")))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "at2", got.AccessToken)
}

func TestMemoryStore_SubjectIndexFollowsUpsert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, record("u1", "s1", "at1")))
	require.NoError(t, s.Upsert(ctx, record("u1", "s2", "at2")))

	got, err := s.GetBySubject(ctx, "s2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)

	stale, err := s.GetBySubject(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, stale, "replaced subject must not resolve anymore")
}

func TestMemoryStore_DeleteRemovesBothKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, record("u1", "s1", "at1")))
	require.NoError(t, s.Delete(ctx, "u1"))

	byUser, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, byUser)

	bySubject, err := s.GetBySubject(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, bySubject)
}

func TestMemoryStore_RejectsIncompleteRecord(t *testing.T) {
	s := NewMemoryStore()

	err := s.Upsert(context.Background(), Record{UserID: "u1"})
	assert.Error(t, err)
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now()
	r := Record{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, r.Expired(now))
	assert.True(t, r.Expired(now.Add(time.Hour)))
	assert.True(t, r.Expired(now.Add(2*time.Hour)))
}
