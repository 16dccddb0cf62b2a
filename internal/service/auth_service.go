package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// Sentinel errors surfaced by the auth service.
var (
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBanned      = errors.New("account is banned")
)

const bcryptCost = 12

// AuthService exposes registration, login and profile use-cases.
type AuthService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, userID string) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	BatchFor(ctx context.Context, userID string) (string, error)
}

type authService struct {
	users          repository.UserRepository
	batches        repository.BatchRepository
	validator      *validator.Validate
	logger         zerolog.Logger
	jwtSecret      string
	tokenTTL       time.Duration
	defaultBatchID string
	now            func() time.Time
}

// NewAuthService constructs an auth service.
func NewAuthService(users repository.UserRepository, batches repository.BatchRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, defaultBatchID string, logger zerolog.Logger) AuthService {
	return &authService{
		users:          users,
		batches:        batches,
		validator:      validate,
		logger:         logger.With().Str("component", "auth_service").Logger(),
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		defaultBatchID: defaultBatchID,
		now:            time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcryptCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		Role:         models.UserRoleMember,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, err
	}

	// Every new account joins the default cohort, as the original platform
	// serves a single batch today.
	if _, err := s.batches.EnsureDefault(ctx, s.defaultBatchID); err != nil {
		return dto.AuthResponse{}, err
	}
	membership := models.UserBatch{UserID: user.ID, BatchID: s.defaultBatchID, Role: "member"}
	if err := s.users.AddToBatch(ctx, &membership); err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")

	return s.issueToken(user, s.defaultBatchID)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if user.IsBanned {
		return dto.AuthResponse{}, ErrAccountBanned
	}

	batchID, err := s.BatchFor(ctx, user.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return s.issueToken(user, batchID)
}

func (s *authService) Profile(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	applyIfSet := func(target *string, value *string) {
		if value != nil {
			*target = strings.TrimSpace(*value)
		}
	}

	applyIfSet(&user.FirstName, payload.FirstName)
	applyIfSet(&user.LastName, payload.LastName)
	applyIfSet(&user.City, payload.City)
	applyIfSet(&user.Country, payload.Country)
	applyIfSet(&user.CurrentRole, payload.CurrentRole)
	applyIfSet(&user.Bio, payload.Bio)
	applyIfSet(&user.LinkedinURL, payload.LinkedinURL)
	applyIfSet(&user.WebsiteURL, payload.WebsiteURL)
	applyIfSet(&user.AvatarURL, payload.AvatarURL)
	applyIfSet(&user.CanHelpWith, payload.CanHelpWith)
	applyIfSet(&user.LookingFor, payload.LookingFor)

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// BatchFor resolves the batch scoping a user's content, falling back to the
// default cohort when the user carries no explicit membership.
func (s *authService) BatchFor(ctx context.Context, userID string) (string, error) {
	batchID, err := s.users.PrimaryBatchID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultBatchID, nil
		}
		return "", err
	}
	return batchID, nil
}

func (s *authService) issueToken(user models.User, batchID string) (dto.AuthResponse, error) {
	expiresAt := s.now().Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"role":     user.Role,
		"batch_id": batchID,
		"iat":      s.now().Unix(),
		"exp":      expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}
