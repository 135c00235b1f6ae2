package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/token"
)

type memUsers struct {
	byEmail map[string]*user.User
	byID    map[int64]*user.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*user.User{}, byID: map[int64]*user.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return pg.ErrConflict
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return u, nil
}
func (m *memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return u, nil
}
func (m *memUsers) SetLineManager(ctx context.Context, id int64, managerID *int64) error {
	return nil
}
func (m *memUsers) SetEmailOptOut(ctx context.Context, id int64, optOut bool) error { return nil }

func newAuth() (*Usecase, *memUsers, *token.Service) {
	users := newMemUsers()
	tokens := token.NewService(token.Config{Secret: []byte("test-secret")})
	return NewUsecase(users, tokens), users, tokens
}

func TestSignUpAndSignIn(t *testing.T) {
	uc, _, tokens := newAuth()

	u, tok, err := uc.SignUp(context.Background(), SignUpInput{
		Email:     "  Ada@Example.COM ",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	id, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	got, tok2, err := uc.SignIn(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, tok2)
}

func TestSignUpWeakPassword(t *testing.T) {
	uc, _, _ := newAuth()

	_, _, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	uc, _, _ := newAuth()

	in := SignUpInput{Email: "dup@example.com", Password: "long-enough"}
	_, _, err := uc.SignUp(context.Background(), in)
	require.NoError(t, err)

	_, _, err = uc.SignUp(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignUpUnknownManager(t *testing.T) {
	uc, _, _ := newAuth()

	missing := int64(999)
	_, _, err := uc.SignUp(context.Background(), SignUpInput{
		Email:         "new@example.com",
		Password:      "long-enough",
		LineManagerID: &missing,
	})
	assert.ErrorIs(t, err, ErrNoSuchManager)
}

func TestSignInBadPassword(t *testing.T) {
	uc, _, _ := newAuth()

	_, _, err := uc.SignUp(context.Background(), SignUpInput{Email: "x@example.com", Password: "long-enough"})
	require.NoError(t, err)

	_, _, err = uc.SignIn(context.Background(), "x@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	uc, _, _ := newAuth()

	_, _, err := uc.SignIn(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
