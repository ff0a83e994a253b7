package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codecoach/internal/common"
	"codecoach/internal/common/security"
	"codecoach/internal/domain/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := r.users[user.Username]; exists {
		return common.ErrDuplicateUsername
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func newTestAuthService(t *testing.T, limiter *LoginLimiter) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewAuthService(repo, tokens, limiter, zap.NewNop()), repo
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestAuthService(t, nil)

	resp, err := svc.Signup(context.Background(), SignupRequest{Username: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("signup returned empty token")
	}
	if resp.Message != "User created successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	userID, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if userID != 1 {
		t.Errorf("token user id = %d, want 1", userID)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupRequest{Username: "alice", Password: "first"}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Password: "second"})
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if got := common.HTTPStatusFromError(err); got != 400 {
		t.Errorf("mapped status = %d, want 400", got)
	}
}

func TestSignupRejectsEmptyFields(t *testing.T) {
	svc, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	for _, req := range []SignupRequest{{Username: "", Password: "x"}, {Username: "x", Password: ""}} {
		if _, err := svc.Signup(ctx, req); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("signup %+v: expected ErrInvalidInput, got %v", req, err)
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	signupResp, err := svc.Signup(ctx, SignupRequest{Username: "bob", Password: "secretpw"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	signupID, _ := svc.VerifyToken(signupResp.Token)

	loginResp, err := svc.Login(ctx, LoginRequest{Username: "bob", Password: "secretpw"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	loginID, err := svc.VerifyToken(loginResp.Token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if loginID != signupID {
		t.Errorf("login token user id = %d, want %d", loginID, signupID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupRequest{Username: "carol", Password: "rightpw"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Username: "carol", Password: "wrongpw"}, ""); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "rightpw"}, ""); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginLimiterBlocksRepeatedFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewLoginLimiter(rdb, 3, time.Minute, zap.NewNop())

	svc, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupRequest{Username: "dave", Password: "rightpw"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(ctx, LoginRequest{Username: "dave", Password: "wrongpw"}, "10.0.0.9"); !errors.Is(err, common.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Fourth attempt is blocked even with the right password.
	_, err := svc.Login(ctx, LoginRequest{Username: "dave", Password: "rightpw"}, "10.0.0.9")
	if !errors.Is(err, common.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if got := common.HTTPStatusFromError(err); got != 429 {
		t.Errorf("mapped status = %d, want 429", got)
	}
}

func TestLoginLimiterClearsOnSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewLoginLimiter(rdb, 3, time.Minute, zap.NewNop())

	svc, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupRequest{Username: "erin", Password: "rightpw"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		svc.Login(ctx, LoginRequest{Username: "erin", Password: "wrongpw"}, "10.0.0.5")
	}
	if _, err := svc.Login(ctx, LoginRequest{Username: "erin", Password: "rightpw"}, "10.0.0.5"); err != nil {
		t.Fatalf("login below the limit failed: %v", err)
	}

	// Counters were cleared, so the window restarts from zero.
	for i := 0; i < 2; i++ {
		svc.Login(ctx, LoginRequest{Username: "erin", Password: "wrongpw"}, "10.0.0.5")
	}
	if _, err := svc.Login(ctx, LoginRequest{Username: "erin", Password: "rightpw"}, "10.0.0.5"); err != nil {
		t.Fatalf("login after counter reset failed: %v", err)
	}
}

func TestLoginLimiterFailsOpenWithoutRedis(t *testing.T) {
	// Nothing listening; keep the client from retrying so the test stays fast.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	limiter := NewLoginLimiter(rdb, 1, time.Minute, zap.NewNop())

	svc, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupRequest{Username: "frank", Password: "rightpw"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	svc.Login(ctx, LoginRequest{Username: "frank", Password: "wrongpw"}, "10.0.0.2")

	if _, err := svc.Login(ctx, LoginRequest{Username: "frank", Password: "rightpw"}, "10.0.0.2"); err != nil {
		t.Fatalf("limiter did not fail open: %v", err)
	}
}
