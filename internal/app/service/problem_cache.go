package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codecoach/internal/domain/model"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	recentProblemsKeyPrefix = "problems:recent:"
	recentProblemsMax       = 20
	recentProblemsTTL       = 24 * time.Hour
)

// ProblemCache keeps the most recent generated problems per
// (language, difficulty) in a capped redis list.
type ProblemCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewProblemCache(rdb *redis.Client, logger *zap.Logger) *ProblemCache {
	return &ProblemCache{rdb: rdb, logger: logger}
}

func (c *ProblemCache) Store(ctx context.Context, language, difficulty string, record *model.ProblemRecord) error {
	entry := model.CachedProblem{
		ID:         uuid.NewString(),
		Language:   language,
		Difficulty: difficulty,
		Record:     *record,
		CreatedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cached problem: %w", err)
	}

	key := recentKey(language, difficulty)
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, recentProblemsMax-1)
	pipe.Expire(ctx, key, recentProblemsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store cached problem: %w", err)
	}
	return nil
}

func (c *ProblemCache) Recent(ctx context.Context, language, difficulty string) ([]model.CachedProblem, error) {
	raw, err := c.rdb.LRange(ctx, recentKey(language, difficulty), 0, recentProblemsMax-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list cached problems: %w", err)
	}

	problems := make([]model.CachedProblem, 0, len(raw))
	for _, item := range raw {
		var entry model.CachedProblem
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			c.logger.Warn("dropping unreadable cached problem", zap.Error(err))
			continue
		}
		problems = append(problems, entry)
	}
	return problems, nil
}

// recentKey normalizes user-supplied language/difficulty into a safe key.
func recentKey(language, difficulty string) string {
	return recentProblemsKeyPrefix + slug.Make(language) + ":" + slug.Make(difficulty)
}
