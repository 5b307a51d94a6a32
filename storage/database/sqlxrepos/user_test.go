package sqlxrepos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmecc/volunteerhub/core/user"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func Test_userRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	usr := user.User{Email: "jane@test.test", FirstName: "Jane", LastName: "Doe"}

	t.Run("returns the new id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO "user"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		got, err := repo.CreateUser(ctx, usr)
		if err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		if got.ID != 7 {
			t.Errorf("CreateUser() ID = %d, want 7", got.ID)
		}
		if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
			t.Error("CreateUser() timestamps not set")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO "user"`).
			WillReturnError(&pq.Error{Code: "23505"})

		if _, err := repo.CreateUser(ctx, usr); err != user.ErrUserExists {
			t.Errorf("CreateUser() error = %v, want %v", err, user.ErrUserExists)
		}
	})
}

func Test_userRepository_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		now := time.Now().UTC()
		cols := []string{"id", "email", "first_name", "last_name", "password_hash", "created_at", "updated_at"}
		mock.ExpectQuery(`SELECT \* FROM "user" WHERE email = \$1`).
			WithArgs("jane@test.test").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "jane@test.test", "Jane", "Doe", []byte("hash"), now, now))
		mock.ExpectQuery(`SELECT permission_name FROM user_permissions`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"permission_name"}).AddRow("me").AddRow("volunteer"))

		usr, err := repo.GetUserByEmail(ctx, "jane@test.test")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed: %v", err)
		}
		if usr.ID != 7 || usr.FirstName != "Jane" {
			t.Errorf("GetUserByEmail() = %+v", usr)
		}
		if len(usr.Scopes) != 2 || !usr.HasScope("volunteer") {
			t.Errorf("GetUserByEmail() scopes = %v", usr.Scopes)
		}
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "user" WHERE email = \$1`).
			WithArgs("nobody@test.test").
			WillReturnError(sql.ErrNoRows)

		if _, err := repo.GetUserByEmail(ctx, "nobody@test.test"); err != user.ErrNotFound {
			t.Errorf("GetUserByEmail() error = %v, want %v", err, user.ErrNotFound)
		}
	})
}

func Test_userRepository_UpdateUser(t *testing.T) {
	ctx := context.Background()
	usr := user.User{ID: 7, Email: "jane@test.test", FirstName: "Jane", LastName: "Doe"}

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE "user" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.UpdateUser(ctx, usr)
		if err != nil {
			t.Fatalf("UpdateUser() failed: %v", err)
		}
		if got.UpdatedAt.IsZero() {
			t.Error("UpdateUser() UpdatedAt not set")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE "user" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		if _, err := repo.UpdateUser(ctx, usr); err != user.ErrNotFound {
			t.Errorf("UpdateUser() error = %v, want %v", err, user.ErrNotFound)
		}
	})
}

func Test_userRepository_LinkUserPermission(t *testing.T) {
	ctx := context.Background()
	link := user.UserPermission{UserID: 7, PermissionName: "admin"}

	t.Run("linked", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO user_permissions`).
			WithArgs(7, "admin").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.LinkUserPermission(ctx, link); err != nil {
			t.Fatalf("LinkUserPermission() failed: %v", err)
		}
	})

	t.Run("already linked", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO user_permissions`).
			WithArgs(7, "admin").
			WillReturnError(&pq.Error{Code: "23505"})

		if err := repo.LinkUserPermission(ctx, link); err != user.ErrLinkExists {
			t.Errorf("LinkUserPermission() error = %v, want %v", err, user.ErrLinkExists)
		}
	})
}
