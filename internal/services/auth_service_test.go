package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Blacklist(token *models.BlacklistedToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockTokenRepository) IsBlacklisted(token string) (bool, error) {
	args := m.Called(token)
	return args.Bool(0), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

// signTestToken mints a token directly, bypassing the service, so tests can
// construct expired or wrongly-typed tokens.
func signTestToken(typ string, exp time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"typ":      typ,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, _ := token.SignedString([]byte(testJWTSecret))
	return signed
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenRepository)
	authService := services.NewAuthService(mockRepo, mockTokens, testJWTSecret)

	req := models.RegisterRequest{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "password123",
		Password2: "password123",
	}

	// Successful registration
	mockRepo.On("GetByUsername", req.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", req.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, pair, err := authService.RegisterUser(req)
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	// Password must be stored hashed
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", req.Username).Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.RegisterUser(req)
	assert.Error(t, err)
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["username"], "already taken")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", req.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", req.Email).Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.RegisterUser(req)
	assert.Error(t, err)
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["email"], "already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenRepository)
	authService := services.NewAuthService(mockRepo, mockTokens, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		IsSeller: true,
	}

	// Successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	loggedIn, pair, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	// The access token carries identity claims and typ=access
	claims, err := authService.ValidateAccessToken(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, true, claims["is_seller"])
	assert.Equal(t, "access", claims["typ"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Unknown username gets the same generic message
	mockRepo.On("GetByUsername", "nobody").Return(nil, assert.AnError).Once()
	_, _, err = authService.LoginUser("nobody", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RefreshToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenRepository)
	authService := services.NewAuthService(mockRepo, mockTokens, testJWTSecret)

	user := &models.User{ID: "user-123", Username: "testuser"}
	refresh := signTestToken("refresh", time.Now().Add(time.Hour))

	// Valid refresh token mints a new access token
	mockTokens.On("IsBlacklisted", refresh).Return(false, nil).Once()
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	pair, err := authService.RefreshToken(refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	claims, err := authService.ValidateAccessToken(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	mockTokens.AssertExpectations(t)
	mockRepo.AssertExpectations(t)

	// An access token cannot be used as a refresh token
	access := signTestToken("access", time.Now().Add(time.Hour))
	_, err = authService.RefreshToken(access)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// A blacklisted refresh token is rejected
	mockTokens.On("IsBlacklisted", refresh).Return(true, nil).Once()
	_, err = authService.RefreshToken(refresh)
	assert.ErrorIs(t, err, services.ErrTokenBlacklisted)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenRepository)
	authService := services.NewAuthService(mockRepo, mockTokens, testJWTSecret)

	// Missing token is malformed input
	err := authService.Logout("")
	assert.ErrorIs(t, err, services.ErrMalformedToken)

	// Garbage is malformed, not merely invalid
	err = authService.Logout("not-a-jwt-at-all")
	assert.ErrorIs(t, err, services.ErrMalformedToken)

	// An expired token is invalid, not malformed
	expired := signTestToken("refresh", time.Now().Add(-time.Hour))
	err = authService.Logout(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.NotErrorIs(t, err, services.ErrMalformedToken)

	// Happy path blacklists the token
	refresh := signTestToken("refresh", time.Now().Add(time.Hour))
	mockTokens.On("IsBlacklisted", refresh).Return(false, nil).Once()
	mockTokens.On("Blacklist", mock.AnythingOfType("*models.BlacklistedToken")).Return(nil).Once()
	err = authService.Logout(refresh)
	assert.NoError(t, err)
	mockTokens.AssertExpectations(t)

	// A second logout with the same token reports it as blacklisted
	mockTokens.On("IsBlacklisted", refresh).Return(true, nil).Once()
	err = authService.Logout(refresh)
	assert.ErrorIs(t, err, services.ErrTokenBlacklisted)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenRepository)
	authService := services.NewAuthService(mockRepo, mockTokens, testJWTSecret)

	// Valid access token
	access := signTestToken("access", time.Now().Add(time.Hour))
	claims, err := authService.ValidateAccessToken(access)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// A refresh token is not accepted for API access
	refresh := signTestToken("refresh", time.Now().Add(time.Hour))
	_, err = authService.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired tokens are rejected
	expired := signTestToken("access", time.Now().Add(-time.Hour))
	_, err = authService.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
