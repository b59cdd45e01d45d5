package redis

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/helio-labs/llmpulse/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HGetAllMulti fetches all fields for multiple hashes in a single DoMulti round-trip.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))

	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = m
	}

	return out, nil
}

// HSetIndexed writes a record hash and its sorted-set index entry inside
// MULTI/EXEC. Either both land or neither does.
func (s *Store) HSetIndexed(
	ctx context.Context, key string, fields map[string]string,
	indexKey, member string, score float64,
) error {
	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}
	zadd := s.b().Zadd().Key(indexKey).ScoreMember().ScoreMember(score, member).Build()

	cmds := []rueidis.Completed{
		s.b().Multi().Build(),
		hset.Build(),
		zadd,
		s.b().Exec().Build(),
	}

	results := s.client.DoMulti(ctx, cmds...)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpMulti, Err: err}
		}
	}
	return nil
}

// ZRangeByScore returns members with score in [min, max], ascending.
func (s *Store) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	cmd := s.b().Zrangebyscore().Key(key).Min(formatScore(min)).Max(formatScore(max)).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRangeByScore, Err: err}
	}
	return members, nil
}

// ZRevRangeByScore returns members with score in [min, max], descending.
func (s *Store) ZRevRangeByScore(ctx context.Context, key string, max, min float64) ([]string, error) {
	cmd := s.b().Zrevrangebyscore().Key(key).Max(formatScore(max)).Min(formatScore(min)).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRangeByScore, Err: err}
	}
	return members, nil
}

// ZCount returns the number of members with score in [min, max].
func (s *Store) ZCount(ctx context.Context, key string, min, max float64) (int64, error) {
	cmd := s.b().Zcount().Key(key).Min(formatScore(min)).Max(formatScore(max)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCount, Err: err}
	}
	return n, nil
}

// formatScore renders a score bound for range commands. Infinities map
// to the +inf/-inf forms Redis expects.
func formatScore(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
