package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
)

// UserService handles staff account management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*pagination.PaginatedResult[entity.User], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, input.Search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// CreateUserInput represents the input for creating a staff account
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUser adds an account. The role defaults to cashier.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleCashier
	}
	return createUser(ctx, s.userRepo, input.Name, input.Email, input.Password, role)
}

// DeleteUser soft deletes a user. Admins cannot delete themselves and the
// last admin cannot be removed.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	if actor.UserID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if user.IsAdmin() {
		admins, err := s.userRepo.CountByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperror.NewBadRequestError("The last admin cannot be deleted")
		}
	}

	return s.userRepo.Delete(ctx, userID)
}
