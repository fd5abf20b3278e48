package service

import (
	"context"
	"fmt"

	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
