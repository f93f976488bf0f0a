//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository/postgres"
	"github.com/bagdasarian/org-service/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	// Создаём контейнер Postgres через testcontainers
	postgresContainer, err := tcpostgres.Run(ctx, "postgres:17.7",
		tcpostgres.WithDatabase("test_db"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	applied, err := postgres.Migrate(ctx, db, migrations.FS)
	require.NoError(t, err, "не удалось применить миграции")
	require.Positive(t, applied)

	t.Cleanup(func() {
		db.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return db
}

func createUser(t *testing.T, store *postgres.Store, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

// createOrganization создает организацию с владельцем и участниками
func createOrganization(t *testing.T, store *postgres.Store, name string, owner *domain.User, members ...*domain.User) *domain.Organization {
	t.Helper()
	ctx := context.Background()

	org := &domain.Organization{Name: name, OwnerID: owner.ID, IsActive: true}
	require.NoError(t, store.Organizations().Create(ctx, org))
	for _, member := range members {
		require.NoError(t, store.Organizations().AddMember(ctx, org.ID, member.ID))
	}
	return org
}
