package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/jwt"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/password"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockRepository) UpdatePINHash(ctx context.Context, userUID, pinHash string) error {
	args := m.Called(ctx, userUID, pinHash)
	return args.Error(0)
}

type MockJWTMaker struct {
	mock.Mock
}

func (m *MockJWTMaker) GenerateToken(username, userUID string) (string, error) {
	args := m.Called(username, userUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTMaker) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Register(t *testing.T) {
	repo := new(MockRepository)
	maker := new(MockJWTMaker)
	svc := New(repo, maker, newNoopLogger(), 7)

	req := models.RegisterRequest{
		Username: "parent1",
		Email:    "parent1@example.com",
		Password: "password123",
		PIN:      "1234",
	}

	t.Run("hashes credentials and sets trial dates", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			if user.PasswordHash == req.Password || user.PINHash == req.PIN {
				return false
			}
			if password.CompareHash(user.PasswordHash, req.Password) != nil {
				return false
			}
			if password.CompareHash(user.PINHash, req.PIN) != nil {
				return false
			}
			if user.TrialStartedAt == nil || user.TrialEndsAt == nil {
				return false
			}
			return user.TrialEndsAt.Sub(*user.TrialStartedAt) == 7*24*time.Hour
		})).Return("uid-1", nil).Once()
		maker.On("GenerateToken", "parent1", "uid-1").Return("tok", nil).Once()

		token, userUID, err := svc.Register(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, "tok", token)
		assert.Equal(t, "uid-1", userUID)
		repo.AssertExpectations(t)
	})

	t.Run("storage failure aborts registration", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("CreateUser", mock.Anything, mock.Anything).Return("", errors.New("duplicate username")).Once()

		_, _, err := svc.Register(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestService_Login(t *testing.T) {
	repo := new(MockRepository)
	maker := new(MockJWTMaker)
	svc := New(repo, maker, newNoopLogger(), 7)

	hash, err := password.GetHash("password123")
	assert.NoError(t, err)
	user := &models.User{UID: "uid-1", Username: "parent1", PasswordHash: hash}

	t.Run("valid credentials return token", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("GetUserByUsername", mock.Anything, "parent1").Return(user, nil).Once()
		maker.On("GenerateToken", "parent1", "uid-1").Return("tok", nil).Once()

		token, err := svc.Login(context.Background(), "parent1", "password123")
		assert.NoError(t, err)
		assert.Equal(t, "tok", token)
	})

	t.Run("wrong password gives invalid credentials", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("GetUserByUsername", mock.Anything, "parent1").Return(user, nil).Once()

		_, err := svc.Login(context.Background(), "parent1", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user gives the same error as wrong password", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, errors.New("no rows")).Once()

		_, err := svc.Login(context.Background(), "nobody", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_UpdateSettings(t *testing.T) {
	repo := new(MockRepository)
	maker := new(MockJWTMaker)
	svc := New(repo, maker, newNoopLogger(), 7)

	t.Run("stores hash of the new pin", func(t *testing.T) {
		repo.On("UpdatePINHash", mock.Anything, "uid-1", mock.MatchedBy(func(hash string) bool {
			return hash != "5678" && password.CompareHash(hash, "5678") == nil
		})).Return(nil).Once()

		err := svc.UpdateSettings(context.Background(), "uid-1", models.SettingsUpdateRequest{PIN: "5678"})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
