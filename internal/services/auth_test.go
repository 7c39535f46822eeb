package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhub/apiserver/internal/store"
	"github.com/taskhub/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	user types.User
}

func (r *stubUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	if r.user.ID == id {
		return r.user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	if r.user.Email == email {
		return r.user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if r.user.Username == username {
		return r.user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (r *stubUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	return user, nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id int) error {
	return nil
}

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubUserRepo{user: types.User{
		ID:           7,
		Username:     "bob",
		Email:        "bob@x.com",
		PasswordHash: string(hashed),
	}}
	return NewAuthService(NewUserService(repo), testSecret)
}

func TestAuthenticateIssuesVerifiableTokenPair(t *testing.T) {
	auth := newTestAuthService(t)

	pair, err := auth.Authenticate(context.Background(), "bob@x.com", "pw123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	userID, err := auth.VerifyAccessToken(pair.Access)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected user id 7, got %d", userID)
	}
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	auth := newTestAuthService(t)

	if _, err := auth.Authenticate(context.Background(), "  BOB@X.COM ", "pw123"); err != nil {
		t.Fatalf("authenticate with unnormalized email: %v", err)
	}
}

func TestAuthenticateFailuresAreGeneric(t *testing.T) {
	auth := newTestAuthService(t)

	_, wrongPassword := auth.Authenticate(context.Background(), "bob@x.com", "nope")
	_, unknownEmail := auth.Authenticate(context.Background(), "nobody@x.com", "pw123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
}

func TestVerifyAccessTokenRejectsRefreshToken(t *testing.T) {
	auth := newTestAuthService(t)

	pair, err := auth.IssueTokenPair(7)
	if err != nil {
		t.Fatalf("issue token pair: %v", err)
	}
	if _, err := auth.VerifyAccessToken(pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token, got %v", err)
	}
}

func TestVerifyAccessTokenRejectsBadTokens(t *testing.T) {
	auth := newTestAuthService(t)

	cases := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.token"},
		{"wrong secret", signTestToken(t, "other-secret", "access", time.Hour)},
		{"expired", signTestToken(t, testSecret, "access", -time.Hour)},
		{"missing subject", signTestTokenWithSubject(t, testSecret, "access", time.Hour, "")},
	}
	for _, tc := range cases {
		if _, err := auth.VerifyAccessToken(tc.token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", tc.name, err)
		}
	}
}

func signTestToken(t *testing.T, secret, tokenType string, ttl time.Duration) string {
	t.Helper()
	return signTestTokenWithSubject(t, secret, tokenType, ttl, strconv.Itoa(7))
}

func signTestTokenWithSubject(t *testing.T, secret, tokenType string, ttl time.Duration, subject string) string {
	t.Helper()

	now := time.Now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
