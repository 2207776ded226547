// internal/app/system/revalidate/redis.go
package revalidate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached pages between instances. Each route keeps a set
// of its page keys so DropRoute can delete them together; Redis expires the
// pages themselves.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client. prefix namespaces every key.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "wavesite:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Connect opens a client and verifies it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) pageKey(key string) string    { return r.prefix + "page:" + key }
func (r *RedisStore) routeKey(route string) string { return r.prefix + "route:" + route }
func (r *RedisStore) routesKey() string            { return r.prefix + "routes" }
func (r *RedisStore) genKey(route string) string   { return r.prefix + "gen:" + route }
func (r *RedisStore) epochKey() string             { return r.prefix + "epoch" }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.pageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisStore) Put(ctx context.Context, route, key string, val []byte, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.pageKey(key), val, ttl)
	pipe.SAdd(ctx, r.routeKey(route), key)
	pipe.SAdd(ctx, r.routesKey(), route)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Generation(ctx context.Context, route string) (Generation, error) {
	return readGeneration(ctx, r.client, r.epochKey(), r.genKey(route))
}

// PutIfCurrent watches the route's generation keys so an invalidation
// landing between the check and the write aborts the write.
func (r *RedisStore) PutIfCurrent(ctx context.Context, gen Generation, route, key string, val []byte, ttl time.Duration) (bool, error) {
	stored := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGeneration(ctx, tx, r.epochKey(), r.genKey(route))
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.pageKey(key), val, ttl)
			pipe.SAdd(ctx, r.routeKey(route), key)
			pipe.SAdd(ctx, r.routesKey(), route)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, r.epochKey(), r.genKey(route))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func readGeneration(ctx context.Context, c multiGetter, epochKey, genKey string) (Generation, error) {
	vals, err := c.MGet(ctx, epochKey, genKey).Result()
	if err != nil {
		return Generation{}, err
	}
	var g Generation
	for i, dst := range []*uint64{&g.Epoch, &g.Route} {
		s, ok := vals[i].(string)
		if !ok {
			continue
		}
		if *dst, err = strconv.ParseUint(s, 10, 64); err != nil {
			return Generation{}, fmt.Errorf("generation %q: %w", s, err)
		}
	}
	return g, nil
}

func (r *RedisStore) DropRoute(ctx context.Context, route string) error {
	keys, err := r.client.SMembers(ctx, r.routeKey(route)).Result()
	if err != nil {
		return err
	}
	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, r.pageKey(k))
	}
	del = append(del, r.routeKey(route))
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, r.genKey(route))
	pipe.Del(ctx, del...)
	pipe.SRem(ctx, r.routesKey(), route)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Flush(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.epochKey()).Err(); err != nil {
		return err
	}
	routes, err := r.client.SMembers(ctx, r.routesKey()).Result()
	if err != nil {
		return err
	}
	for _, route := range routes {
		if err := r.DropRoute(ctx, route); err != nil {
			return err
		}
	}
	return nil
}

// Ping reports whether Redis is reachable, for health checks.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
