package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
)

const revokedPrefix = "revoked:"

// Open connects to Redis and pings it.
func Open(conf core.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// RevocationStore keeps revoked token ids as keys expiring with the token.
type RevocationStore struct {
	client goredis.Cmdable
	prefix string
	now    core.Clock
}

var _ auth.RevocationStore = (*RevocationStore)(nil)

func NewRevocationStore(client goredis.Cmdable) *RevocationStore {
	return &RevocationStore{
		client: client,
		prefix: revokedPrefix,
		now:    time.Now,
	}
}

func (r *RevocationStore) key(jti string) string {
	return r.prefix + jti
}

func (r *RevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return errors.New("revocation: missing jti")
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	return r.client.Set(ctx, r.key(jti), 1, ttl).Err()
}

func (r *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
