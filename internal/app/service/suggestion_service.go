package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"codecoach/internal/common"
	"codecoach/internal/domain/model"

	"go.uber.org/zap"
)

const suggestionPromptTemplate = "Given the following problem statement: '%s', with sample input '%s', " +
	"expected output '%s' and explanation '%s', suggest improvements for the code below, " +
	"including optimizations and solutions with better time and space complexity:\n%s"

type SuggestionService struct {
	session ChatSession
	logger  *zap.Logger
}

func NewSuggestionService(session ChatSession, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{session: session, logger: logger}
}

// Suggest validates the round-tripped problem record, prompts the model and
// returns its reply verbatim. problemData may be the record object itself or
// its JSON-string form.
func (s *SuggestionService) Suggest(ctx context.Context, code string, problemData json.RawMessage) (string, error) {
	if code == "" {
		return "", common.ErrMissingCode
	}

	record, err := parseProblemData(problemData)
	if err != nil {
		return "", err
	}
	if missing := record.MissingFields(); len(missing) > 0 {
		return "", common.Errorf("missing %v: %w", missing, common.ErrIncompleteProblem)
	}

	prompt := fmt.Sprintf(suggestionPromptTemplate,
		record.ProblemStatement, record.Input, record.Output, record.OutputExplanation, code)

	reply, err := s.session.SendMessage(ctx, prompt)
	if err != nil {
		return "", common.Errorf("%w: %v", common.ErrModelUnavailable, err)
	}
	return reply, nil
}

func parseProblemData(problemData json.RawMessage) (*model.ProblemRecord, error) {
	trimmed := bytes.TrimSpace(problemData)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, common.ErrMissingProblem
	}

	// Clients sometimes round-trip the record as a serialized string.
	if trimmed[0] == '"' {
		var serialized string
		if err := json.Unmarshal(trimmed, &serialized); err != nil {
			return nil, common.Errorf("%w: %v", common.ErrMalformedProblem, err)
		}
		trimmed = []byte(serialized)
	}

	record := &model.ProblemRecord{}
	if err := json.Unmarshal(trimmed, record); err != nil {
		return nil, common.Errorf("%w: %v", common.ErrMalformedProblem, err)
	}
	return record, nil
}
