package credentials

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key credentials are stored under when none is given.
const DefaultRedisKey = "identity:credentials"

// RedisStore keeps credentials under a single Redis key, for hosts that share one session.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (Credentials, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, errors.Wrap(err, "[RedisStore.Load] get")
	}
	return Decode(data)
}

func (r *RedisStore) Save(ctx context.Context, creds Credentials) error {
	data, err := Encode(creds)
	if err != nil {
		return errors.Wrap(err, "[RedisStore.Save] encode")
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Save] set")
	}
	return nil
}
