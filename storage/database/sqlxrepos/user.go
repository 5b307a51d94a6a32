package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dmecc/volunteerhub/core/user"
)

type userRow struct {
	ID           int       `db:"id"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	PreferredName         null.String `db:"preferred_name"`
	PhotoPermission       null.Bool   `db:"photo_permission"`
	CommunicationID       null.String `db:"communication_id"`
	PhoneNumber           null.String `db:"phone_number"`
	ParentFirstName       null.String `db:"parent_first_name"`
	ParentLastName        null.String `db:"parent_last_name"`
	ParentEmail           null.String `db:"parent_email"`
	ParentCommunicationID null.String `db:"parent_communication_id"`
	ParentPhoneNumber     null.String `db:"parent_phone_number"`

	GradeLevel      null.Int    `db:"grade_level"`
	EnglishLiteracy null.String `db:"english_literacy"`
	StartDate       null.Time   `db:"start_date"`
	TrainingLevel   null.String `db:"training_level"`
	Rank            null.String `db:"rank"`
	DesiredMajor    null.String `db:"desired_major"`
	VolunteerStatus null.String `db:"volunteer_status"`
	VolunteerGoals  null.String `db:"volunteer_goals"`

	SchoolID null.Int `db:"school_id"`
}

func (row userRow) toUser() user.User {
	return user.User{
		ID:           row.ID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		PasswordHash: row.PasswordHash,

		PreferredName:         row.PreferredName.String,
		PhotoPermission:       row.PhotoPermission.Bool,
		CommunicationID:       row.CommunicationID.String,
		PhoneNumber:           row.PhoneNumber.String,
		ParentFirstName:       row.ParentFirstName.String,
		ParentLastName:        row.ParentLastName.String,
		ParentEmail:           row.ParentEmail.String,
		ParentCommunicationID: row.ParentCommunicationID.String,
		ParentPhoneNumber:     row.ParentPhoneNumber.String,

		GradeLevel:      row.GradeLevel.Int,
		EnglishLiteracy: row.EnglishLiteracy.String,
		StartDate:       row.StartDate.Time,
		TrainingLevel:   row.TrainingLevel.String,
		Rank:            row.Rank.String,
		DesiredMajor:    row.DesiredMajor.String,
		VolunteerStatus: row.VolunteerStatus.String,
		VolunteerGoals:  row.VolunteerGoals.String,

		SchoolID: intPtr(row.SchoolID),

		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func rowFromUser(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Email:        usr.Email,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		PasswordHash: usr.PasswordHash,

		PreferredName:         null.NewString(usr.PreferredName, usr.PreferredName != ""),
		PhotoPermission:       null.BoolFrom(usr.PhotoPermission),
		CommunicationID:       null.NewString(usr.CommunicationID, usr.CommunicationID != ""),
		PhoneNumber:           null.NewString(usr.PhoneNumber, usr.PhoneNumber != ""),
		ParentFirstName:       null.NewString(usr.ParentFirstName, usr.ParentFirstName != ""),
		ParentLastName:        null.NewString(usr.ParentLastName, usr.ParentLastName != ""),
		ParentEmail:           null.NewString(usr.ParentEmail, usr.ParentEmail != ""),
		ParentCommunicationID: null.NewString(usr.ParentCommunicationID, usr.ParentCommunicationID != ""),
		ParentPhoneNumber:     null.NewString(usr.ParentPhoneNumber, usr.ParentPhoneNumber != ""),

		GradeLevel:      null.NewInt(usr.GradeLevel, usr.GradeLevel != 0),
		EnglishLiteracy: null.NewString(usr.EnglishLiteracy, usr.EnglishLiteracy != ""),
		StartDate:       null.NewTime(usr.StartDate.UTC(), !usr.StartDate.IsZero()),
		TrainingLevel:   null.NewString(usr.TrainingLevel, usr.TrainingLevel != ""),
		Rank:            null.NewString(usr.Rank, usr.Rank != ""),
		DesiredMajor:    null.NewString(usr.DesiredMajor, usr.DesiredMajor != ""),
		VolunteerStatus: null.NewString(usr.VolunteerStatus, usr.VolunteerStatus != ""),
		VolunteerGoals:  null.NewString(usr.VolunteerGoals, usr.VolunteerGoals != ""),

		SchoolID: null.IntFromPtr(usr.SchoolID),

		CreatedAt: usr.CreatedAt.UTC(),
		UpdatedAt: usr.UpdatedAt.UTC(),
	}
}

func intPtr(n null.Int) *int {
	if !n.Valid {
		return nil
	}
	v := n.Int
	return &v
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const insertUserQuery = `
INSERT INTO "user" (
	email, first_name, last_name, password_hash,
	preferred_name, photo_permission, communication_id, phone_number,
	parent_first_name, parent_last_name, parent_email, parent_communication_id, parent_phone_number,
	grade_level, english_literacy, start_date, training_level, rank,
	desired_major, volunteer_status, volunteer_goals, school_id,
	created_at, updated_at
) VALUES (
	:email, :first_name, :last_name, :password_hash,
	:preferred_name, :photo_permission, :communication_id, :phone_number,
	:parent_first_name, :parent_last_name, :parent_email, :parent_communication_id, :parent_phone_number,
	:grade_level, :english_literacy, :start_date, :training_level, :rank,
	:desired_major, :volunteer_status, :volunteer_goals, :school_id,
	:created_at, :updated_at
) RETURNING id`

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	now := time.Now().UTC()
	usr.CreatedAt = now
	usr.UpdatedAt = now

	row := rowFromUser(usr)
	rows, err := repo.db.NamedQueryContext(ctx, insertUserQuery, row)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&usr.ID); err != nil {
			return user.User{}, errors.Wrap(err, "inserting user")
		}
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by id")
	}
	usr := row.toUser()
	if err := repo.loadScopes(ctx, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE email = $1`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	usr := row.toUser()
	if err := repo.loadScopes(ctx, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

const updateUserQuery = `
UPDATE "user" SET
	email = :email, first_name = :first_name, last_name = :last_name, password_hash = :password_hash,
	preferred_name = :preferred_name, photo_permission = :photo_permission,
	communication_id = :communication_id, phone_number = :phone_number,
	parent_first_name = :parent_first_name, parent_last_name = :parent_last_name,
	parent_email = :parent_email, parent_communication_id = :parent_communication_id,
	parent_phone_number = :parent_phone_number,
	grade_level = :grade_level, english_literacy = :english_literacy, start_date = :start_date,
	training_level = :training_level, rank = :rank, desired_major = :desired_major,
	volunteer_status = :volunteer_status, volunteer_goals = :volunteer_goals, school_id = :school_id,
	updated_at = :updated_at
WHERE id = :id`

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.UpdatedAt = time.Now().UTC()

	res, err := repo.db.NamedExecContext(ctx, updateUserQuery, rowFromUser(usr))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) UserExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM "user" WHERE id = $1)`, id)
	return exists, errors.Wrap(err, "checking user")
}

func (repo userRepository) CreatePermission(ctx context.Context, p user.Permission) (user.Permission, error) {
	if _, err := repo.db.ExecContext(ctx, `INSERT INTO permission (name) VALUES ($1)`, p.Name); err != nil {
		if isUniqueViolation(err) {
			return user.Permission{}, user.ErrPermissionExists
		}
		return user.Permission{}, errors.Wrap(err, "inserting permission")
	}
	return p, nil
}

func (repo userRepository) GetPermission(ctx context.Context, name string) (user.Permission, error) {
	var p user.Permission
	if err := repo.db.GetContext(ctx, &p.Name, `SELECT name FROM permission WHERE name = $1`, name); err != nil {
		return user.Permission{}, repo.trapNoRowsErr(err, "getting permission")
	}
	return p, nil
}

func (repo userRepository) LinkUserPermission(ctx context.Context, link user.UserPermission) error {
	q := `INSERT INTO user_permissions (user_id, permission_name) VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, q, link.UserID, link.PermissionName); err != nil {
		if isUniqueViolation(err) {
			return user.ErrLinkExists
		}
		return errors.Wrap(err, "linking user permission")
	}
	return nil
}

func (repo userRepository) loadScopes(ctx context.Context, usr *user.User) error {
	q := `SELECT permission_name FROM user_permissions WHERE user_id = $1 ORDER BY permission_name`
	if err := repo.db.SelectContext(ctx, &usr.Scopes, q, usr.ID); err != nil {
		return errors.Wrap(err, "loading user scopes")
	}
	return nil
}
