package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// CreateUser creates a new user with its role set in one transaction.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bank.users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", models.ErrUserAlreadyExists, user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := replaceRoles(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}

	return tx.Commit()
}

// FindUserByUsername retrieves a user and its roles by username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, `WHERE username = $1`, username)
}

// FindUserByID retrieves a user and its roles by id.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, `WHERE id = $1`, id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM bank.users ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %v", models.ErrUserNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Roles, err = r.userRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves all users with their roles.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM bank.users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for i := range users {
		users[i].Roles, err = r.userRoles(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateUserRoles replaces the full role set of a user.
func (r *Repository) UpdateUserRoles(ctx context.Context, userID int64, roles []models.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bank.user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}
	if err := replaceRoles(ctx, tx, userID, roles); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteUser removes a user permanently.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, id)
	}
	return nil
}

func (r *Repository) userRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role FROM bank.user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func replaceRoles(ctx context.Context, tx *sql.Tx, userID int64, roles []models.Role) error {
	for _, role := range roles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bank.user_roles (user_id, role) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, userID, string(role))
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}
	return nil
}
