package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// UserRepository reads the mock user records backing the access policy.
// There is no real authentication; the seed mirrors the records office's
// demo accounts.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082902)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	department TEXT NOT NULL,
	permissions JSONB NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	for _, user := range seedUsers() {
		permsJSON, err := json.Marshal(user.Permissions)
		if err != nil {
			return fmt.Errorf("marshal permissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, name, role, department, permissions)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO NOTHING
`, user.ID, user.Name, string(user.Role), user.Department, permsJSON); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, role, department, permissions
FROM users
WHERE id = $1
`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrUserNotFound, "get user", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, role, department, permissions
FROM users
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user     domain.User
		role     string
		permsRaw []byte
	)
	if err := row.Scan(&user.ID, &user.Name, &role, &user.Department, &permsRaw); err != nil {
		return nil, err
	}
	user.Role = domain.UserRole(role)
	if err := json.Unmarshal(permsRaw, &user.Permissions); err != nil {
		return nil, fmt.Errorf("unmarshal permissions: %w", err)
	}
	return &user, nil
}

func seedUsers() []domain.User {
	return []domain.User{
		{
			ID: "u1", Name: "Admin User", Role: domain.RoleAdmin, Department: "档案馆",
			Permissions: domain.Permissions{CanView: true, CanImport: true, CanExport: true, CanModify: true, CanDelete: true},
		},
		{
			ID: "u2", Name: "Staff A", Role: domain.RoleUser, Department: "教务处",
			Permissions: domain.Permissions{CanView: true, CanImport: true, RequiresApproval: true},
		},
		{
			ID: "u3", Name: "Researcher B", Role: domain.RoleUser, Department: "历史系",
			Permissions: domain.Permissions{CanView: true, CanExport: true, RequiresApproval: true},
		},
	}
}
