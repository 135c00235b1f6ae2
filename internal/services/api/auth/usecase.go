package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrNoSuchManager      = errors.New("line manager does not exist")
)

type Usecase struct {
	users  user.Repo
	tokens *token.Service
	now    func() time.Time
}

func NewUsecase(users user.Repo, tokens *token.Service) *Usecase {
	return &Usecase{
		users:  users,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type SignUpInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	LineManagerID *int64
}

func (u *Usecase) SignUp(ctx context.Context, in SignUpInput) (*user.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if len(in.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	if in.LineManagerID != nil {
		if _, err := u.users.GetByID(ctx, *in.LineManagerID); err != nil {
			if errors.Is(err, pg.ErrNotFound) {
				return nil, "", ErrNoSuchManager
			}
			return nil, "", err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := u.now()
	newUser := &user.User{
		Email:         in.Email,
		PasswordHash:  string(hash),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		LineManagerID: in.LineManagerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, pg.ErrConflict) {
			return nil, "", ErrEmailExists
		}
		return nil, "", err
	}

	tok, err := u.tokens.Issue(newUser.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return newUser, tok, nil
}

func (u *Usecase) SignIn(ctx context.Context, email, password string) (*user.User, string, error) {
	email = normalizeEmail(email)
	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	tok, err := u.tokens.Issue(rec.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return rec, tok, nil
}
