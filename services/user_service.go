package services

import (
	"context"
	"strings"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/repository"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// UserService looks up accounts that can be added to split bills
type UserService struct {
	users *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Search finds other users by name or email. Queries shorter than two
// characters return nothing.
func (s *UserService) Search(ctx context.Context, userID, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < utils.MinSearchQueryLength {
		return []models.UserSummary{}, nil
	}

	users, err := s.users.Search(ctx, query, userID, utils.MaxSearchResults)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
