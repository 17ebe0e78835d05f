package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AdminUserStore is the persistence surface for user administration.
type AdminUserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRoles(ctx context.Context, userID int64, roles []models.Role) error
	DeleteUser(ctx context.Context, id int64) error
}

// AdminUserService manages users and their role assignments.
type AdminUserService struct {
	users AdminUserStore
	log   *logrus.Logger
}

// NewAdminUserService initializes a new admin user service
func NewAdminUserService(users AdminUserStore, log *logrus.Logger) *AdminUserService {
	return &AdminUserService{users: users, log: log}
}

// CreateUser creates a user with a hashed password and a resolved,
// non-empty role set.
func (s *AdminUserService) CreateUser(ctx context.Context, username, email, password string, roleNames []string) (*models.User, error) {
	roles, err := resolveRoles(roleNames)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Roles:        roles,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User created: %s", user.Username)
	return user, nil
}

// GetAllUsers returns every user in the system.
func (s *AdminUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

// UpdateRoles replaces the full role set of a user.
func (s *AdminUserService) UpdateRoles(ctx context.Context, userID int64, roleNames []string) error {
	roles, err := resolveRoles(roleNames)
	if err != nil {
		return err
	}
	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateUserRoles(ctx, userID, roles)
}

// AddRole grants a single role to a user.
func (s *AdminUserService) AddRole(ctx context.Context, userID int64, roleName string) error {
	role, ok := models.ParseRole(roleName)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrRoleNotFound, roleName)
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasRole(role) {
		return nil
	}
	return s.users.UpdateUserRoles(ctx, userID, append(user.Roles, role))
}

// RemoveRole revokes a single role from a user.
func (s *AdminUserService) RemoveRole(ctx context.Context, userID int64, roleName string) error {
	role, ok := models.ParseRole(roleName)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrRoleNotFound, roleName)
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	remaining := make([]models.Role, 0, len(user.Roles))
	for _, r := range user.Roles {
		if r != role {
			remaining = append(remaining, r)
		}
	}
	return s.users.UpdateUserRoles(ctx, userID, remaining)
}

// DeleteUser removes a user permanently.
func (s *AdminUserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.Infof("User deleted: %d", userID)
	return nil
}

func resolveRoles(roleNames []string) ([]models.Role, error) {
	if len(roleNames) == 0 {
		return nil, models.ErrRolesEmpty
	}
	seen := make(map[models.Role]bool, len(roleNames))
	roles := make([]models.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, ok := models.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrRoleNotFound, name)
		}
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles, nil
}
