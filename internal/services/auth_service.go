package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/dairydash-api/internal/config"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 30 * 24 * time.Hour

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

// AuthService handles vendor registration and sessions
type AuthService struct {
	vendorRepo       repository.VendorRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(vendorRepo repository.VendorRepository, rtRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		vendorRepo:       vendorRepo,
		refreshTokenRepo: rtRepo,
		cfg:              cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string                `json:"token"`
	RefreshToken string                `json:"refresh_token"`
	Vendor       models.VendorResponse `json:"vendor"`
}

// RegisterInput holds the fields of a new vendor account
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register creates a vendor account and signs it in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("invalid email address")
	}
	if len(in.Password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationError("name is required")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	vendor := &models.Vendor{
		Email:             email,
		EncryptedPassword: hash,
		Name:              strings.TrimSpace(in.Name),
		Phone:             strings.TrimSpace(in.Phone),
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
		}
		return nil, err
	}

	return s.issue(ctx, vendor)
}

// Login authenticates a vendor and returns tokens
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	vendor, err := s.vendorRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, errInvalidCredentials
	}

	if !VerifyPassword(password, vendor.EncryptedPassword) {
		return nil, errInvalidCredentials
	}

	return s.issue(ctx, vendor)
}

// RefreshToken rotates a refresh token and returns new tokens
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	// rotation: the presented token is single-use either way
	_ = s.refreshTokenRepo.Delete(ctx, refreshToken)

	if rt.IsExpired() {
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, rt.VendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: vendor not found", ErrUnauthorized)
	}

	return s.issue(ctx, vendor)
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// Me returns the signed-in vendor
func (s *AuthService) Me(ctx context.Context, vendorID string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, translate(err, "vendor")
	}
	return vendor, nil
}

func (s *AuthService) issue(ctx context.Context, vendor *models.Vendor) (*LoginResult, error) {
	token, err := s.generateJWT(vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		Vendor:       vendor.ToResponse(),
	}, nil
}

// generateJWT creates a signed token carrying the vendor id
func (s *AuthService) generateJWT(vendor *models.Vendor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"vendor_id": vendor.ID,
		"email":     vendor.Email,
		"exp":       now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, vendorID string) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)
	expiresAt := time.Now().Add(refreshTokenTTL)

	rt := &models.RefreshToken{
		VendorID:  vendorID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}

	return token, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
