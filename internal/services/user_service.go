package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcnijman/go-emailaddress"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/auth"
	"github.com/yukikurage/recipe-api/internal/constants"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/repository"
	"github.com/yukikurage/recipe-api/internal/validation"
)

var (
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("unable to authenticate with provided credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// UserService handles registration, authentication and profile updates.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the information needed to create a user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput holds the credentials for the token endpoint.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateUserInput holds the fields a user may change on their profile.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Name     *string
}

// NormalizeEmail validates an address and lowercases its domain part. The
// local part keeps its casing.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", validation.FieldError("email", "is required")
	}

	addr, err := emailaddress.Parse(raw)
	if err != nil {
		return "", validation.FieldError("email", "must be a valid email address")
	}

	return addr.LocalPart + "@" + strings.ToLower(addr.Domain), nil
}

// Register creates a regular, active user.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	user, err := s.newUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(input.Name)

	if err := s.create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser creates a user with the staff and superuser flags set.
func (s *UserService) CreateSuperuser(email, password string) (*models.User, error) {
	user, err := s.newUser(email, password)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true

	if err := s.create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials of an active user and returns the
// user with a freshly issued bearer token.
func (s *UserService) Authenticate(input LoginInput) (*models.User, string, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", ErrFailedToIssueToken
	}
	return user, token, nil
}

// ResolveToken returns the active user a bearer token was issued for.
func (s *UserService) ResolveToken(token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.GetActiveUser(userID)
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetActiveUser retrieves a user by ID; inactive users count as missing.
func (s *UserService) GetActiveUser(id uint64) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update changes the profile of the given user.
func (s *UserService) Update(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email, err := NormalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) newUser(rawEmail, password string) (*models.User, error) {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}, nil
}

func (s *UserService) create(user *models.User) error {
	if _, err := s.userRepo.FindByEmail(user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", validation.FieldError("password",
			fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
