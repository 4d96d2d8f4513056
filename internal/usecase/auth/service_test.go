package auth

import (
	"context"
	"errors"
	"testing"

	"skillswap/internal/domain/user"
	"skillswap/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]user.User

	createErr error
	existsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]user.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

type fakeJWT struct {
	validateClaims jwt.Claims
	validateErr    error

	accessCalls  int
	refreshCalls int
	lastRole     user.Role
}

func (f *fakeJWT) GenerateAccessToken(userID uuid.UUID, _ string, role user.Role) (string, error) {
	f.accessCalls++
	f.lastRole = role
	return "access-" + userID.String(), nil
}

func (f *fakeJWT) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	f.refreshCalls++
	return "refresh-" + userID.String(), nil
}

func (f *fakeJWT) ValidateToken(string) (jwt.Claims, error) {
	return f.validateClaims, f.validateErr
}

func (f *fakeJWT) IsRefreshToken(c jwt.Claims) bool {
	return c.TokenType == jwt.TokenTypeRefresh
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role user.Role) user.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := user.User{
		ID:           uuid.New(),
		Name:         "Seeded",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	repo.users[u.ID] = u
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues tokens", func(t *testing.T) {
		repo := newFakeUserRepo()
		tok := &fakeJWT{}
		svc := NewService(repo, tok)

		u, pair, err := svc.Register(ctx, RegisterInput{
			Name:     "  Alice  ",
			Email:    "Alice@Example.com",
			Password: "hunter2hunter2",
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if u.Name != "Alice" {
			t.Errorf("name = %q, want trimmed", u.Name)
		}
		if u.Email != "alice@example.com" {
			t.Errorf("email = %q, want lowercased", u.Email)
		}
		if u.Role != user.RoleUser {
			t.Errorf("role = %q, want %q", u.Role, user.RoleUser)
		}
		if u.PasswordHash != "" {
			t.Error("password hash leaked in returned user")
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Errorf("token pair incomplete: %+v", pair)
		}
		if tok.accessCalls != 1 || tok.refreshCalls != 1 {
			t.Errorf("token calls = %d/%d, want 1/1", tok.accessCalls, tok.refreshCalls)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &fakeJWT{})

		_, _, err := svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "short"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(t, repo, "bob@example.com", "password123", user.RoleUser)
		svc := NewService(repo, &fakeJWT{})

		_, _, err := svc.Register(ctx, RegisterInput{Name: "Bob", Email: "BOB@example.com", Password: "password123"})
		if !errors.Is(err, ErrEmailAlreadyRegistered) {
			t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
		}
	})

	t.Run("masks repository failures", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.existsErr = errors.New("connection reset by peer")
		svc := NewService(repo, &fakeJWT{})

		_, _, err := svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
		if !errors.Is(err, ErrInternal) {
			t.Fatalf("err = %v, want ErrInternal", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		repo := newFakeUserRepo()
		seeded := seedUser(t, repo, "alice@example.com", "password123", user.RoleAdmin)
		tok := &fakeJWT{}
		svc := NewService(repo, tok)

		u, pair, err := svc.Login(ctx, LoginInput{Email: "Alice@Example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if u.ID != seeded.ID {
			t.Errorf("user id = %s, want %s", u.ID, seeded.ID)
		}
		if u.PasswordHash != "" {
			t.Error("password hash leaked in returned user")
		}
		if pair.AccessToken == "" {
			t.Error("missing access token")
		}
		if tok.lastRole != user.RoleAdmin {
			t.Errorf("access token role = %q, want admin", tok.lastRole)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(t, repo, "alice@example.com", "password123", user.RoleUser)
		svc := NewService(repo, &fakeJWT{})

		_, _, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &fakeJWT{})

		_, _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		repo := newFakeUserRepo()
		seeded := seedUser(t, repo, "alice@example.com", "password123", user.RoleAdmin)
		tok := &fakeJWT{
			validateClaims: jwt.Claims{UserID: seeded.ID, TokenType: jwt.TokenTypeRefresh},
		}
		svc := NewService(repo, tok)

		pair, err := svc.Refresh(ctx, "some-refresh-token")
		if err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Errorf("token pair incomplete: %+v", pair)
		}
		// The new access token must carry the user's current role, not
		// whatever the old token had.
		if tok.lastRole != user.RoleAdmin {
			t.Errorf("access token role = %q, want admin", tok.lastRole)
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		repo := newFakeUserRepo()
		seeded := seedUser(t, repo, "alice@example.com", "password123", user.RoleUser)
		tok := &fakeJWT{
			validateClaims: jwt.Claims{UserID: seeded.ID, TokenType: jwt.TokenTypeAccess},
		}
		svc := NewService(repo, tok)

		_, err := svc.Refresh(ctx, "an-access-token")
		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
		}
	})

	t.Run("maps expiry", func(t *testing.T) {
		tok := &fakeJWT{validateErr: jwt.ErrTokenExpired}
		svc := NewService(newFakeUserRepo(), tok)

		_, err := svc.Refresh(ctx, "expired")
		if !errors.Is(err, ErrRefreshTokenExpired) {
			t.Fatalf("err = %v, want ErrRefreshTokenExpired", err)
		}
	})

	t.Run("rejects token for deleted user", func(t *testing.T) {
		tok := &fakeJWT{
			validateClaims: jwt.Claims{UserID: uuid.New(), TokenType: jwt.TokenTypeRefresh},
		}
		svc := NewService(newFakeUserRepo(), tok)

		_, err := svc.Refresh(ctx, "orphaned")
		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
		}
	})
}
