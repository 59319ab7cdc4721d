// Package testinternals starts the real dependencies the integration tests
// run against.
package testinternals

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/2beens/gymsignal/internal/db"
)

const TestDBName = "gymsignal_test"

// Docker returns a dockertest pool. The test is skipped when docker is not
// reachable or -short is set.
func Docker(t *testing.T) *dockertest.Pool {
	t.Helper()
	if testing.Short() || os.Getenv("GYMSIGNAL_SKIP_DOCKER") != "" {
		t.Skip("skipping docker integration test")
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not create new dockertest pool: %s", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		t.Skipf("could not ping docker: %s", err)
	}
	dockerPool.MaxWait = 2 * time.Minute
	return dockerPool
}

func removeOnExit(config *docker.HostConfig) {
	config.AutoRemove = true
	config.RestartPolicy = docker.RestartPolicy{
		Name: "no",
	}
}

// StartPostgres runs a throwaway postgres container and returns its host port
// once it accepts queries.
func StartPostgres(t *testing.T, dockerPool *dockertest.Pool) string {
	t.Helper()
	pgResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + TestDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, removeOnExit)
	if err != nil {
		t.Fatalf("dockerpool run postgres: %s", err)
	}
	t.Cleanup(func() {
		if err := pgResource.Close(); err != nil {
			t.Logf("postgres teardown: %s", err)
		}
	})
	_ = pgResource.Expire(300)

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, TestDBName)

	// wait with a plain database/sql connection until the server accepts queries
	if err := dockerPool.Retry(func() error {
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	}); err != nil {
		t.Fatalf("connect to postgres: %s", err)
	}
	return pgPort
}

// StartRedis runs a throwaway redis container and returns its host port.
func StartRedis(t *testing.T, dockerPool *dockertest.Pool) string {
	t.Helper()
	redisResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, removeOnExit)
	if err != nil {
		t.Fatalf("dockerpool run redis: %s", err)
	}
	t.Cleanup(func() {
		if err := redisResource.Close(); err != nil {
			t.Logf("redis teardown: %s", err)
		}
	})
	_ = redisResource.Expire(300)
	return redisResource.GetPort("6379/tcp")
}

// NewPostgres runs a throwaway postgres container with the service schema applied.
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pgPort := StartPostgres(t, Docker(t))

	ctx := context.Background()
	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: pgPort,
		DBName: TestDBName,
	})
	if err != nil {
		t.Fatalf("new db pool: %s", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %s", err)
	}
	return pool
}
