package service

import (
	"context"
	"fmt"

	"codecoach/internal/common"
	"codecoach/internal/domain/model"

	"go.uber.org/zap"
)

// ChatSession is the conversational surface of the model provider.
type ChatSession interface {
	SendMessage(ctx context.Context, prompt string) (string, error)
}

const problemPromptTemplate = "Generate a %s coding problem that can be solved in %s. " +
	"Respond with exactly one JSON object and nothing else. The object must contain " +
	"these string fields, all non-empty: \"problem_statement\", \"input\", \"output\", " +
	"\"output_explanation\"."

type ProblemService struct {
	session ChatSession
	cache   *ProblemCache // nil when redis is unavailable
	logger  *zap.Logger
}

func NewProblemService(session ChatSession, cache *ProblemCache, logger *zap.Logger) *ProblemService {
	return &ProblemService{session: session, cache: cache, logger: logger}
}

type GenerateProblemRequest struct {
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

// Generate asks the model for a problem and parses the structured record out
// of its free-text reply.
func (s *ProblemService) Generate(ctx context.Context, req GenerateProblemRequest) (*model.ProblemRecord, error) {
	if req.Language == "" || req.Difficulty == "" {
		return nil, common.Errorf("language and difficulty are required: %w", common.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(problemPromptTemplate, req.Difficulty, req.Language)
	reply, err := s.session.SendMessage(ctx, prompt)
	if err != nil {
		return nil, common.Errorf("%w: %v", common.ErrModelUnavailable, err)
	}

	record, err := extractProblemRecord(reply)
	if err != nil {
		s.logger.Warn("model reply contained no parseable problem",
			zap.String("language", req.Language),
			zap.String("difficulty", req.Difficulty),
		)
		return nil, err
	}

	// An object that parsed but lacks fields is still a provider failure.
	if missing := record.MissingFields(); len(missing) > 0 {
		return nil, common.Errorf("model reply incomplete, missing %v: %w", missing, common.ErrNoValidJSON)
	}

	if s.cache != nil {
		// Best effort; generation already succeeded.
		if err := s.cache.Store(ctx, req.Language, req.Difficulty, record); err != nil {
			s.logger.Warn("recent-problem cache store failed", zap.Error(err))
		}
	}

	return record, nil
}

// Recent lists cached problems for a language/difficulty pair, newest first.
func (s *ProblemService) Recent(ctx context.Context, language, difficulty string) ([]model.CachedProblem, error) {
	if language == "" || difficulty == "" {
		return nil, common.Errorf("language and difficulty are required: %w", common.ErrInvalidInput)
	}
	if s.cache == nil {
		return []model.CachedProblem{}, nil
	}
	return s.cache.Recent(ctx, language, difficulty)
}
