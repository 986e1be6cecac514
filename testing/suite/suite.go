package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

const (
	containerExpire = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// Suite is a session store backed by a throwaway Redis container.
type Suite struct {
	*testing.T

	Storage  *redis.Client
	Sessions repository.SessionRepository
}

// New starts Redis and returns a session repository whose snapshots expire after ttl.
// The test is skipped when no docker daemon is reachable.
func New(t *testing.T, ttl time.Duration) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	client := startRedis(ctx, t)

	return ctx, &Suite{
		T:        t,
		Storage:  client,
		Sessions: repository.NewSessionRepository(client, ttl),
	}
}

// Seed stores session and fails the test if it cannot.
func (that *Suite) Seed(ctx context.Context, session *entity.Session) {
	that.Helper()

	if err := that.Sessions.CreateOrUpdate(ctx, session); err != nil {
		that.Fatalf("could not seed session %s: %v", session.ID, err)
	}
}

// SetRaw writes payload under the session's key as is, bypassing the repository.
func (that *Suite) SetRaw(ctx context.Context, id, payload string) {
	that.Helper()

	if err := that.Storage.Set(ctx, repository.SessionKey(id), payload, 0).Err(); err != nil {
		that.Fatalf("could not write raw session %s: %v", id, err)
	}
}

// TTL returns the remaining lifetime of a stored session.
func (that *Suite) TTL(ctx context.Context, id string) time.Duration {
	that.Helper()

	ttl, err := that.Storage.TTL(ctx, repository.SessionKey(id)).Result()
	if err != nil {
		that.Fatalf("could not read ttl of session %s: %v", id, err)
	}

	return ttl
}

func startRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis: %v", err)
		}
	})

	// hard kill the container even if cleanup never runs
	_ = resource.Expire(containerExpire)

	pool.MaxWait = maxWaitDuration

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})
	t.Cleanup(func() { _ = client.Close() })

	// redis in the container may not accept connections yet
	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	return client
}
