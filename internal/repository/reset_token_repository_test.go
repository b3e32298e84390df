package repository

import (
	"context"
	"great_awareness_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBResetTokenStore(t *testing.T) {
	db := newTestDB(t)
	store := NewDBResetTokenStore(db)
	ctx := context.Background()
	user := createUser(t, db, "forgetful")

	require.NoError(t, store.Save(ctx, "tok-1", user.ID, time.Hour))

	id, err := store.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = store.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)

	require.NoError(t, store.Save(ctx, "tok-2", user.ID, -time.Minute))
	_, err = store.Consume(ctx, "tok-2")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
