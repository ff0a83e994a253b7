package service

import (
	"context"
	"errors"
	"fmt"

	"codecoach/internal/common"
	"codecoach/internal/domain/model"
	"codecoach/internal/platform/piston"

	"go.uber.org/zap"
)

const (
	compileTimeoutMs = 10_000
	runTimeoutMs     = 3_000
)

type ExecutionService struct {
	sandbox *piston.Client
	logger  *zap.Logger
}

func NewExecutionService(sandbox *piston.Client, logger *zap.Logger) *ExecutionService {
	return &ExecutionService{sandbox: sandbox, logger: logger}
}

type ExecuteRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
	Version  string `json:"version"`
}

// Execute proxies one run to the sandbox and normalizes its nested result.
// Language and code are validated before any network call.
func (s *ExecutionService) Execute(ctx context.Context, req ExecuteRequest) (*model.ExecutionResult, error) {
	runtime, ok := model.RuntimeFor(req.Language)
	if !ok {
		return nil, common.Errorf("language %q: %w", req.Language, common.ErrUnsupportedLanguage)
	}
	if req.Code == "" {
		return nil, common.ErrMissingCode
	}

	version := runtime.Version
	if req.Version != "" {
		version = req.Version
	}

	resp, err := s.sandbox.Execute(ctx, piston.ExecuteRequest{
		Language:       req.Language,
		Version:        version,
		Files:          []piston.File{{Name: "main." + runtime.Extension, Content: req.Code}},
		Stdin:          req.Stdin,
		Args:           []string{},
		CompileTimeout: compileTimeoutMs,
		RunTimeout:     runTimeoutMs,
	})
	if err != nil {
		var statusErr *piston.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("sandbox rejected execution",
				zap.String("language", req.Language),
				zap.Int("status", statusErr.StatusCode),
			)
			return nil, fmt.Errorf("%w: %w", common.ErrExecutionFailed, statusErr)
		}
		return nil, common.Errorf("%w: %v", common.ErrProxyUnavailable, err)
	}

	return &model.ExecutionResult{
		Stdout: resp.Run.Stdout,
		Stderr: resp.Run.Stderr,
		Output: resp.Run.Output,
		Code:   resp.Run.Code,
		Signal: resp.Run.Signal,
	}, nil
}
