// Package redis configures the client backing conversation persistence.
// The connection is described by a single REDIS_URL; timeouts and pool size
// are tunable separately because conversation mirroring happens on every
// message and should fail fast rather than queue.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	URL          string `split_words:"true" required:"true"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
	PoolSize     int    `split_words:"true" default:"10"`
}

// options parses the URL and applies the config's timeouts and pool size.
func (r *Config) options() (*redis.Options, error) {
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, err
	}

	opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second
	opts.PoolSize = r.PoolSize

	return opts, nil
}

// New builds a client and verifies connectivity with a ping bounded by the
// dial timeout, so a down Redis fails startup instead of the first mirror.
func (r *Config) New() (*redis.Client, error) {
	opts, err := r.options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// MustNew is New for wiring paths where a missing Redis is fatal anyway.
func (r *Config) MustNew() *redis.Client {
	client, err := r.New()
	if err != nil {
		panic(err)
	}

	return client
}
