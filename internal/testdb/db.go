// Package testdb starts throwaway PostgreSQL and Redis containers for
// integration tests.
package testdb

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/config"
	"github.com/pageza/craveq/backend/internal/database"
)

// TestDB wraps a test database instance
type TestDB struct {
	DB        *gorm.DB
	Config    *config.Config
	Container testcontainers.Container
}

// Close cleans up the test database
func (td *TestDB) Close() error {
	if td.DB != nil {
		_ = database.Close(td.DB)
	}
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

// SetupTestDB starts a pgvector-enabled PostgreSQL container, connects to it
// and runs migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	requireDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "test",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	testDB := &TestDB{Container: container}
	// Register cleanup
	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	// Get container host and port
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	testDB.Config = &config.Config{
		Environment:     config.Test,
		ServerHost:      "127.0.0.1",
		ServerPort:      "0",
		DBDriver:        config.DriverPostgres,
		DBHost:          host,
		DBPort:          port.Port(),
		DBUser:          "test",
		DBPassword:      "test",
		DBName:          "test",
		DBSSLMode:       "disable",
		MaxAlternatives: 5,
	}

	testDB.DB, err = database.New(testDB.Config)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(testDB.DB))

	return testDB
}

// SetupTestRedis starts a Redis container and returns a connected client
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	requireDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error cleaning up test redis: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := database.NewRedisClient(&config.Config{RedisHost: host, RedisPort: port.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}
