package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the body of a sign-up request.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// SetPasswordInput is the body of a password change request.
type SetPasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// TokenClaims are the claims the service puts into and reads from a token.
type TokenClaims struct {
	UserID   uint
	Username string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	events     EventPublisher
}

// NewAuthService creates a new AuthService. A non-positive ttl means 24h.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, ttl time.Duration, events EventPublisher) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   ttl,
		bcryptCost: bcrypt.DefaultCost,
		events:     events,
	}
}

// WithBcryptCost overrides the hashing cost, used by tests to stay fast.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// RegisterUser registers a new user, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if strings.EqualFold(in.Username, "me") {
		return nil, fieldError("username", "This username is reserved.")
	}

	// Friendly messages for the common case; the unique indexes still catch races.
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, fieldError("username", fmt.Sprintf("username '%s' already taken", in.Username))
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, fieldError("email", fmt.Sprintf("email '%s' already registered", in.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(ErrConflict, "A user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	logging.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	publish(s.events, EventUserRegistered, struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}{user.ID, user.Username})
	return user, nil
}

// LoginUser authenticates a user by email and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		// do not reveal whether the email exists
		return "", newError(ErrInvalidCredentials, "Unable to log in with provided credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", newError(ErrInvalidCredentials, "Unable to log in with provided credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		logging.Debug().Err(err).Msg("token validation failed")
		return nil, &Error{Kind: ErrInvalidCredentials, Detail: "invalid token: " + err.Error()}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, newError(ErrInvalidCredentials, "invalid token")
	}
	// JSON numbers decode as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID < 1 {
		return nil, newError(ErrInvalidCredentials, "invalid token: missing user_id")
	}
	username, _ := claims["username"].(string)
	return &TokenClaims{UserID: uint(rawID), Username: username}, nil
}

// Authenticate validates the token and checks that its user still exists,
// so a token issued before the account was deleted is rejected.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrInvalidCredentials, "invalid token: user no longer exists")
		}
		return nil, fmt.Errorf("failed to load user %d: %w", claims.UserID, err)
	}
	claims.Username = user.Username
	return claims, nil
}

// ChangePassword replaces the user's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in SetPasswordInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return fieldError("current_password", "Invalid password.")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	logging.Info().Uint("user_id", userID).Msg("password changed")
	return nil
}
