package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
	"rps_arena/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err)
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoError(t, err, "apply migration %s", f.Name())
	}
}

func TestAuditRepository_Create_GetByPin(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	repo := repository.NewAuditRepository(db)

	pin := game.NewPin()
	account := "acct-" + pin
	first := &domain.AuditLog{Pin: pin, Action: "create_game", Details: map[string]interface{}{"stake": 10}}
	second := &domain.AuditLog{Pin: pin, Account: account, Action: "join_game"}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	trail, err := repo.GetByPin(ctx, pin)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "create_game", trail[0].Action)
	assert.Equal(t, float64(10), trail[0].Details["stake"])
	assert.Empty(t, trail[1].Details)

	mine, err := repo.GetByAccount(ctx, account, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "join_game", mine[0].Action)

	none, err := repo.GetByPin(ctx, "missing-"+pin)
	require.NoError(t, err)
	assert.Empty(t, none)
}
