package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/unirecords/archive-console/internal/core/domain"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &UserRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestUserGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, role, department").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !domain.IsKind(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUserGetByIDDecodesPermissions(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "name", "role", "department", "permissions"}).
		AddRow("u1", "Admin User", "管理员", "档案馆",
			[]byte(`{"canView":true,"canImport":true,"canExport":true,"canModify":true,"canDelete":true,"requiresApproval":false}`))

	mock.ExpectQuery("SELECT id, name, role, department").
		WithArgs("u1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("role = %s", user.Role)
	}
	if !user.CanEditSecurityLevel() || !user.CanReview() {
		t.Fatalf("admin capabilities missing: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSeedUsersCoverBothRoles(t *testing.T) {
	seeds := seedUsers()
	if len(seeds) != 3 {
		t.Fatalf("seed count = %d, want 3", len(seeds))
	}
	if seeds[0].Role != domain.RoleAdmin {
		t.Fatalf("first seed role = %s, want admin", seeds[0].Role)
	}
	if seeds[2].CanUpload() {
		t.Fatal("researcher seed must not hold import permission")
	}
}
