// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// Specific errors for user operations
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const userColumns = `id, name, email, password_hash, avatar_url, view_mode, created_at`

// CreateUser inserts a new user with the default year view.
func CreateUser(ctx context.Context, db *DB, name, email, passwordHash string, now time.Time) (*domain.User, error) {
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		ViewMode:     core.ViewModeYear,
		CreatedAt:    now.UTC(),
	}

	sqlStatement := `INSERT INTO users (id, name, email, password_hash, view_mode, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.exec(ctx, sqlStatement, user.ID, user.Name, user.Email, user.PasswordHash, user.ViewMode, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", user.Email, err)
		return nil, fmt.Errorf("database error during user creation: %w", err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by their email address.
func FindUserByEmail(ctx context.Context, db *DB, email string) (*domain.User, error) {
	row := db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, strings.ToLower(strings.TrimSpace(email)))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by email %s: %v", email, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id.
func FindUserByID(ctx context.Context, db *DB, userID string) (*domain.User, error) {
	row := db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by id %s: %v", userID, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// UpdateUserProfile changes the name and/or avatar of a user. Nil arguments
// leave the column unchanged; an empty avatar clears it.
func UpdateUserProfile(ctx context.Context, db *DB, userID string, name, avatarURL *string) (*domain.User, error) {
	setClauses := []string{}
	args := []any{}

	if name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, strings.TrimSpace(*name))
	}
	if avatarURL != nil {
		setClauses = append(setClauses, "avatar_url = ?")
		if trimmed := strings.TrimSpace(*avatarURL); trimmed != "" {
			args = append(args, trimmed)
		} else {
			args = append(args, nil)
		}
	}

	if len(setClauses) > 0 {
		args = append(args, userID)
		// setClauses only contains hardcoded column names
		sqlStatement := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(setClauses, ", "))
		result, err := db.exec(ctx, sqlStatement, args...)
		if err != nil {
			customLog.Warnf("Storage: Failed to update user %s: %v", userID, err)
			return nil, fmt.Errorf("database error during user update: %w", err)
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			return nil, ErrUserNotFound
		}
	}

	return FindUserByID(ctx, db, userID)
}

// UpdateViewMode stores the user's preferred calendar view.
func UpdateViewMode(ctx context.Context, db *DB, userID, viewMode string) error {
	if !core.IsValidViewMode(viewMode) {
		return fmt.Errorf("%w: view mode must be 'year' or 'month'", core.ErrValidation)
	}
	result, err := db.exec(ctx, `UPDATE users SET view_mode = ? WHERE id = ?`, viewMode, userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to update view mode for user %s: %v", userID, err)
		return fmt.Errorf("database error updating view mode: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm view mode update: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		user   domain.User
		avatar sql.NullString
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &avatar, &user.ViewMode, &user.CreatedAt); err != nil {
		return nil, err
	}
	if avatar.Valid {
		user.AvatarURL = &avatar.String
	}
	return &user, nil
}
