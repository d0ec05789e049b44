package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/internal/auth"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository/mock"
)

const secret = "testsecret"

func newService() (*auth.Service, *mock.Mocks) {
	m := mock.NewMocks()
	return auth.NewService(m.Users, secret, time.Hour, nil), m
}

func TestRegisterAndLogin(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	id, err := svc.Register(ctx, auth.Registration{Name: "Asha", Email: "  Asha@Example.com ", Password: "s3cret!", Phone: "98450"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored, _ := m.Users.GetUserByID(ctx, id)
	if stored.Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", stored.Email)
	}
	if stored.PasswordHash == "s3cret!" || stored.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}

	u, token, err := svc.Login(ctx, "ASHA@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != id || token == "" {
		t.Fatalf("unexpected login result: %#v %q", u, token)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != id || claims.Role != models.RoleUser || claims.Subject == "" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestRegister_Rejects(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, auth.Registration{Name: "Asha", Email: "asha@example.com", Password: "pw"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		reg  auth.Registration
		kind apperr.Kind
	}{
		{"Duplicate", auth.Registration{Name: "Asha", Email: "ASHA@example.com", Password: "pw"}, apperr.KindConflict},
		{"MissingName", auth.Registration{Email: "b@example.com", Password: "pw"}, apperr.KindValidation},
		{"BadEmail", auth.Registration{Name: "B", Email: "not-an-email", Password: "pw"}, apperr.KindValidation},
		{"MissingPassword", auth.Registration{Name: "B", Email: "b@example.com"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.reg); !apperr.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestLogin_IdenticalFailures(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, auth.Registration{Name: "Asha", Email: "asha@example.com", Password: "right"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "asha@example.com", "wrong")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "right")

	var a, b *apperr.Error
	if !errors.As(wrongPassword, &a) || !errors.As(unknownEmail, &b) {
		t.Fatalf("expected app errors, got %v / %v", wrongPassword, unknownEmail)
	}
	if a.Kind != apperr.KindAuth || a.Kind != b.Kind || a.Message != b.Message || a.Message != "Invalid credentials" {
		t.Fatalf("failures differ: %#v vs %#v", a, b)
	}
}

func TestLogin_ComparesForEveryFailure(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, auth.Registration{Name: "Asha", Email: "asha@example.com", Password: "right"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var calls int
	var hashes [][]byte
	svc.SetCompare(func(hash, password []byte) error {
		calls++
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"UnknownEmail", "nobody@example.com", "right"},
		{"WrongPassword", "asha@example.com", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := calls
			if _, _, err := svc.Login(ctx, tt.email, tt.password); !apperr.Is(err, apperr.KindAuth) {
				t.Fatalf("expected auth error, got %v", err)
			}
			if calls != before+1 {
				t.Fatalf("expected one password comparison, got %d", calls-before)
			}
		})
	}

	// the unknown email is checked against a real bcrypt hash
	if cost, err := bcrypt.Cost(hashes[0]); err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected dummy hash cost %d: %v", cost, err)
	}
}

func TestParseToken(t *testing.T) {
	u := &models.User{ID: 7, Email: "a@example.com", Role: models.RoleAdmin}

	good, err := auth.IssueToken(u, secret, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if c, err := auth.ParseToken(good, secret); err != nil || c.UserID != 7 || c.Role != models.RoleAdmin {
		t.Fatalf("ParseToken: %#v %v", c, err)
	}

	expired, _ := auth.IssueToken(u, secret, -time.Minute)
	if _, err := auth.ParseToken(expired, secret); err == nil {
		t.Fatalf("expected expired token to fail")
	}

	if _, err := auth.ParseToken(good, "other"); err == nil {
		t.Fatalf("expected wrong secret to fail")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: 7})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := auth.ParseToken(unsigned, secret); err == nil {
		t.Fatalf("expected unsigned token to fail")
	}

	if _, err := auth.ParseToken(strings.Repeat("x", 20), secret); err == nil {
		t.Fatalf("expected garbage to fail")
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Admin", "", "ignored"); err != nil {
		t.Fatalf("empty email should be a no-op: %v", err)
	}

	if err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "password123"); err != nil {
		t.Fatalf("EnsureAdmin create: %v", err)
	}
	u, _ := m.Users.GetUserByEmail(ctx, "admin@example.com")
	if u == nil || u.Role != models.RoleAdmin {
		t.Fatalf("expected admin user, got %#v", u)
	}
	// idempotent
	if err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "password123"); err != nil {
		t.Fatalf("EnsureAdmin rerun: %v", err)
	}

	id, _ := svc.Register(ctx, auth.Registration{Name: "Ops", Email: "ops@example.com", Password: "pw"})
	if err := svc.EnsureAdmin(ctx, "Ops", "ops@example.com", "password123"); err != nil {
		t.Fatalf("EnsureAdmin promote: %v", err)
	}
	if u, _ := svc.Me(ctx, id); u.Role != models.RoleAdmin {
		t.Fatalf("expected promotion, got %q", u.Role)
	}

	if _, err := svc.Me(ctx, 999); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
