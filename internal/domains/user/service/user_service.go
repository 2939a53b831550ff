package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hexalib-backend/internal/domains/user/model"
	"hexalib-backend/internal/domains/user/repository"
	"hexalib-backend/pkg/jwt"
	"hexalib-backend/pkg/logger"
)

// Service exposes user management and authentication.
type Service interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	List(ctx context.Context) ([]model.UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo       repository.Repository
	jwtManager *jwt.Manager
}

func NewUserService(repo repository.Repository, jwtManager *jwt.Manager) Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

func (s *userService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user created", map[string]interface{}{
		"user_id": user.ID.String(),
		"role":    user.Role,
	})

	return model.ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, model.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         model.ToUserResponse(user),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *model.ToUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}
