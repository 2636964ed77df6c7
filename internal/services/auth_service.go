package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the "typ" claim.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo       repositories.UserRepository
	tokenRepo      repositories.TokenRepository
	jwtSecret      []byte
	accessDuration time.Duration
	refreshDurat   time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		jwtSecret:      []byte(jwtSecret),
		accessDuration: 1 * time.Hour,
		refreshDurat:   7 * 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and returns the
// created user with a fresh token pair.
func (s *AuthService) RegisterUser(req models.RegisterRequest) (*models.User, *models.TokenPair, error) {
	if existing, err := s.userRepo.GetByUsername(req.Username); err == nil && existing != nil {
		return nil, nil, NewValidationError("username", fmt.Sprintf("username '%s' already taken", req.Username))
	}
	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, nil, NewValidationError("email", fmt.Sprintf("email '%s' already registered", req.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
		IsSeller:    req.IsSeller,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginUser authenticates a user and returns the user plus a token pair.
func (s *AuthService) LoginUser(username, password string) (*models.User, *models.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists
		return nil, nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken exchanges a valid, non-blacklisted refresh token for a new
// access token.
func (s *AuthService) RefreshToken(refreshToken string) (*models.TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims["typ"] != tokenTypeRefresh {
		return nil, fmt.Errorf("not a refresh token: %w", ErrInvalidToken)
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	userID, _ := claims["user_id"].(string)
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("token subject no longer exists: %w", ErrInvalidToken)
	}

	access, err := s.signToken(user, tokenTypeAccess, s.accessDuration)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access}, nil
}

// Logout blacklists a refresh token so it can no longer mint access tokens.
// Failures are classified: malformed input, invalid/expired token, or an
// already-blacklisted token.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token is required: %w", ErrMalformedToken)
	}

	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return err
	}
	if claims["typ"] != tokenTypeRefresh {
		return fmt.Errorf("not a refresh token: %w", ErrInvalidToken)
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return ErrTokenBlacklisted
	}

	exp := time.Now().Add(s.refreshDurat)
	if expClaim, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(expClaim), 0)
	}
	err = s.tokenRepo.Blacklist(&models.BlacklistedToken{Token: refreshToken, ExpiresAt: exp})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrTokenBlacklisted
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// ValidateAccessToken parses and validates an access token, returning its
// claims. Used by the auth middleware.
func (s *AuthService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims["typ"] != tokenTypeAccess {
		return nil, fmt.Errorf("not an access token: %w", ErrInvalidToken)
	}
	return claims, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorMalformed != 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) generateTokenPair(user *models.User) (*models.TokenPair, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.accessDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.refreshDurat)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, typ string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"is_seller": user.IsSeller,
		"is_admin":  user.IsAdmin,
		"typ":       typ,
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s token: %w", typ, err)
	}
	return tokenString, nil
}
