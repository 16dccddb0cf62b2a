package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

func setupAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t, &models.User{}, &models.School{}, &models.Batch{}, &models.UserBatch{})
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewBatchRepository(db),
		testValidator(),
		"test-secret",
		time.Hour,
		"batch-2003",
		testLogger(),
	)
	return svc, db
}

func TestAuthServiceSignupIssuesTokenAndJoinsBatch(t *testing.T) {
	svc, db := setupAuthService(t)

	resp, err := svc.Signup(context.Background(), dto.SignupRequest{
		Email:     "Maya@Example.com",
		Password:  "sup3rsecret",
		FirstName: "Maya",
		LastName:  "Levi",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "maya@example.com", resp.User.Email)
	require.Equal(t, models.UserRoleMember, resp.User.Role)

	var membership models.UserBatch
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&membership).Error)
	require.Equal(t, "batch-2003", membership.BatchID)

	batchID, err := svc.BatchFor(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.Equal(t, "batch-2003", batchID)
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	payload := dto.SignupRequest{
		Email:     "maya@example.com",
		Password:  "sup3rsecret",
		FirstName: "Maya",
		LastName:  "Levi",
	}
	_, err := svc.Signup(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		Email:     "maya@example.com",
		Password:  "sup3rsecret",
		FirstName: "Maya",
		LastName:  "Levi",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maya@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "maya@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginBannedAccount(t *testing.T) {
	svc, db := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	banned := models.User{
		Email:        "banned@example.com",
		PasswordHash: string(hash),
		FirstName:    "Ba",
		LastName:     "Nned",
		Role:         models.UserRoleMember,
		IsBanned:     true,
	}
	require.NoError(t, db.Create(&banned).Error)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "banned@example.com", Password: "sup3rsecret"})
	require.ErrorIs(t, err, ErrAccountBanned)
}

func TestAuthServiceUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	svc, _ := setupAuthService(t)

	created, err := svc.Signup(context.Background(), dto.SignupRequest{
		Email:     "maya@example.com",
		Password:  "sup3rsecret",
		FirstName: "Maya",
		LastName:  "Levi",
	})
	require.NoError(t, err)

	city := "Tel Aviv"
	bio := "Product manager, amateur drummer"
	updated, err := svc.UpdateProfile(context.Background(), created.User.ID, dto.ProfileUpdateRequest{
		City: &city,
		Bio:  &bio,
	})
	require.NoError(t, err)
	require.Equal(t, "Tel Aviv", updated.City)
	require.Equal(t, bio, updated.Bio)
	require.Equal(t, "Maya", updated.FirstName, "untouched fields keep their values")
}
