package service_test

import (
	"context"
	"testing"

	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.UserDB) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.UserDB, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDB), args.Error(1)
}

func (m *MockUserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*model.UserDB, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDB), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestUserService_Create(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := service.NewUserService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(user *model.UserDB) bool {
		return user.Username == "alice" &&
			user.Role == model.RoleUser &&
			user.APIKey != "" &&
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")) == nil
	})).Return(nil)

	user, err := userService.Create(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.APIKey)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := service.NewUserService(mockRepo)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &model.UserDB{Username: "alice", Password: string(hashed), Role: model.RoleUser}
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

	t.Run("Valid credentials", func(t *testing.T) {
		user, err := userService.Authenticate(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := userService.Authenticate(context.Background(), "alice", "wrong")
		assert.Error(t, err)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo.On("GetByUsername", mock.Anything, "bob").Return(nil, model.ErrUserNotFound)
		_, err := userService.Authenticate(context.Background(), "bob", "s3cret")
		assert.Error(t, err)
	})
}

func TestUserService_GetByAPIKey(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := service.NewUserService(mockRepo)

	stored := &model.UserDB{Username: "alice", Password: "hash", APIKey: "key-123"}
	mockRepo.On("GetByAPIKey", mock.Anything, "key-123").Return(stored, nil)

	user, err := userService.GetByAPIKey(context.Background(), "key-123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}
