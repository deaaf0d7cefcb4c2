package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"board-api/models"
	"board-api/repositories"
	"board-api/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenIssuer = "board-api"

// Claims is the JWT payload. Subject carries the user id as a decimal string.
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// WelcomeMailer is notified after a successful registration.
type WelcomeMailer interface {
	SendWelcomeEmail(email, username string) error
}

type AuthService struct {
	users      *repositories.UserRepository
	secret     []byte
	expiration time.Duration
	mailer     WelcomeMailer
	logger     *slog.Logger
}

func NewAuthService(
	users *repositories.UserRepository,
	secret string,
	expiration time.Duration,
	mailer WelcomeMailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		expiration: expiration,
		mailer:     mailer,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to check email", err)
	}
	if taken {
		return nil, utils.NewConflictError("Email already registered")
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.NewDatabaseError("failed to check username", err)
	}
	if taken {
		return nil, utils.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInternal, "failed to hash password", err)
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Email or username already registered")
		}
		return nil, utils.NewDatabaseError("failed to create user", err)
	}

	if s.mailer != nil {
		go func(email, username string) {
			if err := s.mailer.SendWelcomeEmail(email, username); err != nil {
				s.logger.Warn("welcome email failed", "to", email, "err", err)
			}
		}(user.Email, user.Username)
	}

	return user, nil
}

// Login never reveals whether the email exists: unknown email and wrong password fail alike.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	invalid := utils.NewUnauthorizedError("Invalid credentials")

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, utils.NewDatabaseError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInternal, "failed to issue token", err)
	}

	return &models.LoginResponse{AccessToken: token, User: user}, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to its user. Any failure is Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrUnauthorized, "Invalid or expired token", err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewUnauthorizedError("User no longer exists")
		}
		return nil, utils.NewDatabaseError("failed to load user", err)
	}
	return user, nil
}
