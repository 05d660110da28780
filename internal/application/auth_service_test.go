package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
	"imageshare/pkg/helpers"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newAuthService(repo repository.UserRepository) *AuthService {
	return NewAuthService(repo, helpers.NewJWTManager("test-secret", time.Hour), bcrypt.MinCost, nil)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())

	res, err := svc.Register(context.Background(), "Ada", "Ada@Example.com ", "longenough")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", res.Email)
	require.NotEmpty(t, res.Token)

	claims, err := svc.JWT.Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)
	require.NotEmpty(t, claims.UserID)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	cases := []struct {
		name                  string
		userName, email, pass string
		want                  error
	}{
		{"missing name", "", "a@b.co", "secret1", ErrMissingFields},
		{"missing email", "Ada", "  ", "secret1", ErrMissingFields},
		{"missing password", "Ada", "a@b.co", "", ErrMissingFields},
		{"no at sign", "Ada", "not-an-email", "secret1", ErrInvalidEmail},
		{"no tld", "Ada", "a@b", "secret1", ErrInvalidEmail},
		{"space in email", "Ada", "a b@c.co", "secret1", ErrInvalidEmail},
		{"short password", "Ada", "a@b.co", "12345", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.userName, tc.email, tc.pass)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	// Case and surrounding whitespace must not defeat uniqueness.
	for _, email := range []string{"ada@example.com", "ADA@example.com", " ada@example.com "} {
		_, err = svc.Register(ctx, "Ada Again", email, "secret1")
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("register %q: got %v, want ErrEmailTaken", email, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "secret1")
	_, errWrongPass := svc.Login(ctx, "ada@example.com", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", errUnknown, errWrongPass)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "", "secret1")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Login(context.Background(), "a@b.co", "  ")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLogin_TokensAreIndependent(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	// The registration token must survive a later login.
	_, err = svc.JWT.Parse(res.Token)
	require.NoError(t, err)
	_, err = svc.JWT.Parse(token)
	require.NoError(t, err)
}
