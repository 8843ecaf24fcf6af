package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/storage/database"
)

func TestRow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		sess     session.Session
		wantRole session.Role
		wantRaw  string
	}{
		{
			name:     "known role",
			sess:     session.Session{ID: "a", Role: session.RoleAdmin, RawRole: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
			wantRole: session.RoleAdmin,
			wantRaw:  "admin",
		},
		{
			name:     "unknown role is kept raw and read back as student",
			sess:     session.Session{ID: "b", Role: session.RoleStudent, RawRole: "custodian", CreatedAt: now},
			wantRole: session.RoleStudent,
			wantRaw:  "custodian",
		},
		{
			name:     "missing raw role",
			sess:     session.Session{ID: "c", Role: session.RoleAccountant, CreatedAt: now},
			wantRole: session.RoleAccountant,
			wantRaw:  "accountant",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := toRow(tt.sess)
			assert.Equal(t, tt.wantRaw, r.Role)
			assert.Equal(t, !tt.sess.ExpiresAt.IsZero(), r.ExpiresAt.Valid)

			got := r.session()
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantRaw, got.RawRole)
			assert.True(t, tt.sess.ExpiresAt.Equal(got.ExpiresAt))
		})
	}
}

// TestStore runs against TEST_DATABASE_URL, skipping when it is not set.
func TestStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, database.Migrate(db.DB, "up"))

	store := NewStore(db)
	now := time.Now().UTC().Truncate(time.Second)
	sess := session.Session{
		ID:        uuid.New().String(),
		UserID:    "12",
		FullName:  "Amina K.",
		Role:      session.RoleTeacher,
		RawRole:   "teacher",
		Token:     "tok",
		CreatedAt: now,
		ExpiresAt: now.Add(-time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, session.RoleTeacher, got.Role)

	sess.Token = "tok2"
	require.NoError(t, store.Save(ctx, sess))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok2", got.Token)

	n, err := store.Purge(ctx, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = store.Get(ctx, sess.ID)
	assert.Equal(t, session.ErrNotFound, err)
	assert.Equal(t, session.ErrNotFound, store.Delete(ctx, sess.ID))
}
