package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	errx "github.com/errandboy/server/internal/core/error"
	logx "github.com/errandboy/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Repository persists conversation records. Implementations are a pluggable
// side-effect: the Store works without one, and mirroring failures are never
// surfaced to the user.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	LoadAll(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

const conversationIndexKey = "conversations:index"

// RedisRepository stores each conversation record as a JSON document with a
// TTL refreshed on every touch, plus a set index for enumeration.
type RedisRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisRepository(rdb redis.Cmdable, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisRepository) conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s:record", id)
}

func (r *RedisRepository) Save(ctx context.Context, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", rec.ID).Msg("failed to marshal conversation record")
		return fmt.Errorf("marshal conversation record: %w", err)
	}
	key := r.conversationKey(rec.ID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save conversation record to redis")
		return errx.WrapRedis(err)
	}
	if err := r.rdb.SAdd(ctx, conversationIndexKey, rec.ID).Err(); err != nil {
		logx.Error().Err(err).Str("key", conversationIndexKey).Msg("failed to index conversation record")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisRepository) Load(ctx context.Context, id string) (*Record, error) {
	key := r.conversationKey(id)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errx.WrapRedis(err)
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation record from redis")
		return nil, errx.WrapRedis(err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logx.Error().Err(err).Str("conversation_id", id).Msg("failed to unmarshal conversation record")
		return nil, fmt.Errorf("unmarshal conversation record: %w", err)
	}
	return &rec, nil
}

func (r *RedisRepository) LoadAll(ctx context.Context) ([]*Record, error) {
	ids, err := r.rdb.SMembers(ctx, conversationIndexKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", conversationIndexKey).Msg("failed to list conversation ids")
		return nil, errx.WrapRedis(err)
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Load(ctx, id)
		if err != nil {
			// Expired records linger in the index; skip them.
			logx.Warn().Err(err).Str("conversation_id", id).Msg("skipping unloadable conversation record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.conversationKey(id)).Err(); err != nil {
		logx.Error().Err(err).Str("conversation_id", id).Msg("failed to delete conversation record from redis")
		return errx.WrapRedis(err)
	}
	if err := r.rdb.SRem(ctx, conversationIndexKey, id).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisRepository) DeleteAll(ctx context.Context) error {
	ids, err := r.rdb.SMembers(ctx, conversationIndexKey).Result()
	if err != nil && err != redis.Nil {
		return errx.WrapRedis(err)
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

var _ Repository = (*RedisRepository)(nil)
