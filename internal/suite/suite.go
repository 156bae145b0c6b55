// Package suite starts throwaway dependencies for integration tests.
package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120 // seconds
	startTimeout = 120 * time.Second
)

type Suite struct {
	*testing.T

	Redis *redis.Client
}

// New starts a redis container and returns a client connected to an empty
// database. The test is skipped in -short mode or when docker is unreachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool := dockerPool(t)
	resource := startRedis(t, pool)

	client, err := connect(ctx, pool, resource.GetHostPort("6379/tcp"))
	if err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("redis container never became ready: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
		if err := pool.Purge(resource); err != nil {
			t.Errorf("purge redis container: %v", err)
		}
	})

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, &Suite{T: t, Redis: client}
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker pool unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}
	pool.MaxWait = startTimeout
	return pool
}

func startRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	// hard stop in case cleanup never runs
	_ = resource.Expire(containerTTL)
	return resource
}

// connect retries until the server inside the container accepts pings.
func connect(ctx context.Context, pool *dockertest.Pool, addr string) (*redis.Client, error) {
	var client *redis.Client
	err := pool.Retry(func() error {
		if client != nil {
			_ = client.Close()
		}
		client = redis.NewClient(&redis.Options{Addr: addr})
		return client.Ping(ctx).Err()
	})
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}
	return client, nil
}
