package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/storage"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries a sign-up form.
type RegisterInput struct {
	Name                 string                `form:"name" validate:"required,max=100,alphaspace"`
	Email                string                `form:"email" validate:"required,email,max=255"`
	Password             string                `form:"password" validate:"required,min=8"`
	PasswordConfirmation string                `form:"password_confirmation" validate:"eqfield=Password"`
	Image                *multipart.FileHeader `form:"-" validate:"-"`
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	cleaner    assetCleaner
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, assets storage.AssetStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cleaner:    assetCleaner{assets: assets},
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// RegisterUser validates the form, stores the optional avatar, hashes the
// password and creates the user.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	fields := validateStruct(input)
	if _, bad := fields["email"]; !bad {
		taken, err := s.emailTaken(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			fields["email"] = "has already been taken"
		}
	}
	checkImage(fields, input.Image, false)
	if len(fields) > 0 {
		return nil, validationError(fields)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
	}
	if input.Image != nil {
		name, err := s.cleaner.assets.Store(ctx, storage.ProfileImages, input.Image)
		if err != nil {
			return nil, err
		}
		user.Avatar = name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.cleaner.discard(ctx, storage.ProfileImages, user.Avatar, "")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

func (s *AuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// LoginUser authenticates a user by email and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			log.Printf("Login lookup failed: %v", err)
		}
		return "", nil, apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken issues a signed session token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Authenticate resolves a session token to the live user it belongs to. A
// token of a deleted account no longer authenticates.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.Unauthorized(err.Error())
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, apperror.Unauthorized("invalid token: missing subject")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("session is no longer valid")
		}
		return nil, err
	}
	return user, nil
}
