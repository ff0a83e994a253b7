package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"codecoach/internal/common"

	"go.uber.org/zap"
)

const completeRecordJSON = `{"problem_statement":"Add two numbers","input":"1 2","output":"3","output_explanation":"sum"}`

func TestSuggestReturnsReplyVerbatim(t *testing.T) {
	session := &stubSession{reply: "Use a hash map instead."}
	svc := NewSuggestionService(session, zap.NewNop())

	reply, err := svc.Suggest(context.Background(), "print(1+1)", json.RawMessage(completeRecordJSON))
	if err != nil {
		t.Fatalf("Suggest returned error: %v", err)
	}
	if reply != "Use a hash map instead." {
		t.Errorf("reply = %q", reply)
	}
	if len(session.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(session.prompts))
	}
	if !strings.Contains(session.prompts[0], "Add two numbers") || !strings.Contains(session.prompts[0], "print(1+1)") {
		t.Errorf("prompt missing record or code: %q", session.prompts[0])
	}
}

func TestSuggestAcceptsStringFormRecord(t *testing.T) {
	quoted, err := json.Marshal(completeRecordJSON)
	if err != nil {
		t.Fatal(err)
	}

	svc := NewSuggestionService(&stubSession{reply: "ok"}, zap.NewNop())
	if _, err := svc.Suggest(context.Background(), "code", quoted); err != nil {
		t.Fatalf("Suggest returned error for string-form record: %v", err)
	}
}

func TestSuggestMissingCode(t *testing.T) {
	session := &stubSession{reply: "ok"}
	svc := NewSuggestionService(session, zap.NewNop())

	_, err := svc.Suggest(context.Background(), "", json.RawMessage(completeRecordJSON))
	if !errors.Is(err, common.ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
	if len(session.prompts) != 0 {
		t.Error("model was called despite missing code")
	}
}

func TestSuggestMissingProblemRecord(t *testing.T) {
	svc := NewSuggestionService(&stubSession{reply: "ok"}, zap.NewNop())

	for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
		if _, err := svc.Suggest(context.Background(), "code", raw); !errors.Is(err, common.ErrMissingProblem) {
			t.Errorf("problem_data %q: expected ErrMissingProblem, got %v", raw, err)
		}
	}
}

func TestSuggestMalformedProblemRecord(t *testing.T) {
	svc := NewSuggestionService(&stubSession{reply: "ok"}, zap.NewNop())

	cases := []json.RawMessage{
		json.RawMessage(`"{not valid json"`), // string form that fails to parse
		json.RawMessage(`[1,2,3]`),           // not an object
	}
	for _, raw := range cases {
		if _, err := svc.Suggest(context.Background(), "code", raw); !errors.Is(err, common.ErrMalformedProblem) {
			t.Errorf("problem_data %s: expected ErrMalformedProblem, got %v", raw, err)
		}
	}
}

func TestSuggestIncompleteProblemRecord(t *testing.T) {
	incomplete := `{"problem_statement":"","input":"x","output":"y","output_explanation":"z"}`
	svc := NewSuggestionService(&stubSession{reply: "ok"}, zap.NewNop())

	_, err := svc.Suggest(context.Background(), "code", json.RawMessage(incomplete))
	if !errors.Is(err, common.ErrIncompleteProblem) {
		t.Fatalf("expected ErrIncompleteProblem, got %v", err)
	}
	if got := common.HTTPStatusFromError(err); got != 400 {
		t.Errorf("mapped status = %d, want 400", got)
	}
}

func TestSuggestModelUnavailable(t *testing.T) {
	svc := NewSuggestionService(&stubSession{err: errors.New("dial tcp: refused")}, zap.NewNop())

	_, err := svc.Suggest(context.Background(), "code", json.RawMessage(completeRecordJSON))
	if !errors.Is(err, common.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
