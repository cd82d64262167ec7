package services

import (
	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
	"udaan_backend/internal/services/dto"
)

type UserService interface {
	// ListUsers returns all users, optionally filtered by role,
	// oldest-registered first.
	ListUsers(role *models.UserRole) ([]dto.UserResponse, error)
	GetUser(id string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(role *models.UserRole) ([]dto.UserResponse, error) {
	var (
		users []models.User
		err   error
	)
	if role != nil {
		users, err = s.userRepo.FindByRole(*role)
	} else {
		users, err = s.userRepo.FindAll()
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, buildUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) GetUser(id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	resp := buildUserResponse(user)
	return &resp, nil
}
