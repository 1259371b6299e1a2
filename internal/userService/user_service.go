package user

import (
	"errors"
	"fmt"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"
	"auction-market/internal/repository"
	"auction-market/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and bearer-token authentication.
// Tokens are opaque strings stored server-side, revoked on logout.
type UserService struct {
	users      repository.UserStore
	bcryptCost int
}

// NewUserService creates a new UserService instance.
func NewUserService(users repository.UserStore, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register creates an account and issues its first token. Role may be buyer
// or seller; anything else (including admin) is rejected, buyer is the
// default.
func (s *UserService) Register(name, email, password, role string) (models.User, string, error) {
	if name == "" || email == "" {
		return models.User{}, "", fmt.Errorf("register: missing name or email: %w", auctionerrors.ErrInvalidInput)
	}
	if len(password) < 8 {
		return models.User{}, "", fmt.Errorf("register: password must be at least 8 characters: %w", auctionerrors.ErrInvalidInput)
	}
	switch role {
	case "":
		role = models.RoleBuyer
	case models.RoleBuyer, models.RoleSeller:
	default:
		return models.User{}, "", fmt.Errorf("register: invalid role %q: %w", role, auctionerrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: hash password: %w", err)
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.CreateUser(&u); err != nil {
		return models.User{}, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and bad
// password collapse into the same error so the response does not leak which
// part was wrong.
func (s *UserService) Login(email, password string) (models.User, string, error) {
	u, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.User{}, "", fmt.Errorf("login: %w", auctionerrors.ErrWrongCredentials)
		}
		return models.User{}, "", fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return models.User{}, "", fmt.Errorf("login: %w", auctionerrors.ErrWrongCredentials)
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("login: %w", err)
	}
	return u, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(token string) (models.User, error) {
	if token == "" {
		return models.User{}, fmt.Errorf("authenticate: %w", auctionerrors.ErrUnauthorized)
	}
	u, err := s.users.GetUserByToken(token)
	if err != nil {
		return models.User{}, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// Logout revokes the presented token.
func (s *UserService) Logout(token string) error {
	if err := s.users.DeleteToken(token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist
// yet. Used at startup with credentials from the environment.
func (s *UserService) EnsureAdmin(email, password string) error {
	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, auctionerrors.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("ensure admin: hash password: %w", err)
	}
	u := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := s.users.CreateUser(&u); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func (s *UserService) issueToken(userID uint) (string, error) {
	t := models.AccessToken{
		Token:  utils.NewToken(),
		UserID: userID,
	}
	if err := s.users.CreateToken(&t); err != nil {
		return "", err
	}
	return t.Token, nil
}
