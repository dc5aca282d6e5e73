package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"verifyflow/internal/casework/workflow"
	"verifyflow/internal/identity/models"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/sentinel"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the users table if it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply users schema: %w", err)
	}
	return nil
}

// PostgresUserStore persists users in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID.String(), user.Email, user.FullName, string(user.Role), user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `WHERE id = $1`, userID.String())
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `WHERE email = $1`, email)
}

func (s *PostgresUserStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var (
		u      models.User
		userID uuid.UUID
		role   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, role, password_hash, created_at FROM users `+where, arg,
	).Scan(&userID, &u.Email, &u.FullName, &role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.UserID(userID)
	u.Role = workflow.Actor(role)
	return &u, nil
}
