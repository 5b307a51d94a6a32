package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/org"
)

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *sqlx.DB) *orgRepository {
	return &orgRepository{db: db}
}

func (repo orgRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return org.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo orgRepository) exists(ctx context.Context, query string, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, query, id)
	return exists, errors.Wrap(err, "checking existence")
}

func (repo orgRepository) CreateRegion(ctx context.Context, r org.Region) (org.Region, error) {
	q := `INSERT INTO region (country, name, abbreviation) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.GetContext(ctx, &r.ID, q, r.Country, r.Name, r.Abbreviation); err != nil {
		if isUniqueViolation(err) {
			return org.Region{}, org.ErrRegionExists
		}
		return org.Region{}, errors.Wrap(err, "inserting region")
	}
	return r, nil
}

func (repo orgRepository) GetRegionByID(ctx context.Context, id int) (org.Region, error) {
	var r org.Region
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM region WHERE id = $1`, id); err != nil {
		return org.Region{}, repo.trapNoRowsErr(err, "getting region by id")
	}
	return r, nil
}

func (repo orgRepository) GetRegionByName(ctx context.Context, name string) (org.Region, error) {
	var r org.Region
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM region WHERE name = $1`, name); err != nil {
		return org.Region{}, repo.trapNoRowsErr(err, "getting region by name")
	}
	return r, nil
}

func (repo orgRepository) CreateProgram(ctx context.Context, p org.Program) (org.Program, error) {
	q := `INSERT INTO program (name, region_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &p.ID, q, p.Name, p.RegionID); err != nil {
		if isUniqueViolation(err) {
			return org.Program{}, org.ErrProgramExists
		}
		return org.Program{}, errors.Wrap(err, "inserting program")
	}
	return p, nil
}

func (repo orgRepository) GetProgramByID(ctx context.Context, id int) (org.Program, error) {
	var p org.Program
	if err := repo.db.GetContext(ctx, &p, `SELECT * FROM program WHERE id = $1`, id); err != nil {
		return org.Program{}, repo.trapNoRowsErr(err, "getting program by id")
	}
	return p, nil
}

func (repo orgRepository) CreateSchool(ctx context.Context, s org.School) (org.School, error) {
	q := `INSERT INTO school (abbreviation, name, region_id) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.GetContext(ctx, &s.ID, q, s.Abbreviation, s.Name, s.RegionID); err != nil {
		if isUniqueViolation(err) {
			return org.School{}, org.ErrSchoolExists
		}
		return org.School{}, errors.Wrap(err, "inserting school")
	}
	return s, nil
}

func (repo orgRepository) GetSchoolByID(ctx context.Context, id int) (org.School, error) {
	var s org.School
	if err := repo.db.GetContext(ctx, &s, `SELECT * FROM school WHERE id = $1`, id); err != nil {
		return org.School{}, repo.trapNoRowsErr(err, "getting school by id")
	}
	return s, nil
}

func (repo orgRepository) GetSchoolByNameOrAbbr(ctx context.Context, name, abbr string) (org.School, error) {
	var s org.School
	q := `SELECT * FROM school WHERE name = $1 OR abbreviation = $2 LIMIT 1`
	if err := repo.db.GetContext(ctx, &s, q, name, abbr); err != nil {
		return org.School{}, repo.trapNoRowsErr(err, "getting school by name or abbreviation")
	}
	return s, nil
}

func (repo orgRepository) SchoolExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM school WHERE id = $1)`, id)
}

func (repo orgRepository) CreateTeam(ctx context.Context, t org.Team) (org.Team, error) {
	q := `INSERT INTO team (name, program_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &t.ID, q, t.Name, t.ProgramID); err != nil {
		return org.Team{}, errors.Wrap(err, "inserting team")
	}
	return t, nil
}

func (repo orgRepository) GetTeamByID(ctx context.Context, id int) (org.Team, error) {
	var t org.Team
	if err := repo.db.GetContext(ctx, &t, `SELECT * FROM team WHERE id = $1`, id); err != nil {
		return org.Team{}, repo.trapNoRowsErr(err, "getting team by id")
	}
	return t, nil
}

func (repo orgRepository) TeamExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM team WHERE id = $1)`, id)
}

func (repo orgRepository) TeamsByUser(ctx context.Context, userID int) ([]org.Team, error) {
	teams := make([]org.Team, 0)
	q := `
SELECT t.* FROM team t
JOIN team_membership tm ON tm.team_id = t.id
WHERE tm.user_id = $1
GROUP BY t.id
ORDER BY t.id`
	if err := repo.db.SelectContext(ctx, &teams, q, userID); err != nil {
		return nil, errors.Wrap(err, "listing user teams")
	}
	return teams, nil
}

func (repo orgRepository) CreateTrait(ctx context.Context, t org.Trait) (org.Trait, error) {
	q := `INSERT INTO trait (name) VALUES ($1) RETURNING id`
	if err := repo.db.GetContext(ctx, &t.ID, q, t.Name); err != nil {
		return org.Trait{}, errors.Wrap(err, "inserting trait")
	}
	return t, nil
}

func (repo orgRepository) TraitExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM trait WHERE id = $1)`, id)
}

func (repo orgRepository) AddTeamMember(ctx context.Context, m org.TeamMembership) error {
	q := `INSERT INTO team_membership (user_id, team_id, role_id) VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, q, m.UserID, m.TeamID, m.RoleID); err != nil {
		if isUniqueViolation(err) {
			return org.ErrMembershipExists
		}
		return errors.Wrap(err, "inserting team membership")
	}
	return nil
}

func (repo orgRepository) AddUserTrait(ctx context.Context, a org.UserTraitAssociation) error {
	q := `INSERT INTO user_trait_association (user_id, trait_id, count) VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, q, a.UserID, a.TraitID, a.Count); err != nil {
		if isUniqueViolation(err) {
			return org.ErrUserTraitExists
		}
		return errors.Wrap(err, "inserting user trait")
	}
	return nil
}

func (repo orgRepository) UserExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM "user" WHERE id = $1)`, id)
}

func (repo orgRepository) RoleExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`, id)
}
