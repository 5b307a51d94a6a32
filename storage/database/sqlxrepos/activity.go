package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo activityRepository) exists(ctx context.Context, query string, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, query, id)
	return exists, errors.Wrap(err, "checking existence")
}

func (repo activityRepository) CreateEvent(ctx context.Context, evt activity.Event) (activity.Event, error) {
	q := `INSERT INTO event (name, date) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &evt.ID, q, evt.Name, evt.Date); err != nil {
		return activity.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo activityRepository) GetEventByID(ctx context.Context, id int) (activity.Event, error) {
	var evt activity.Event
	if err := repo.db.GetContext(ctx, &evt, `SELECT * FROM event WHERE id = $1`, id); err != nil {
		return activity.Event{}, errors.Wrap(err, "getting event by id")
	}
	return evt, nil
}

func (repo activityRepository) EventExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)`, id)
}

func (repo activityRepository) RecentEventsBySchool(ctx context.Context, schoolID int, before time.Time) ([]activity.Event, error) {
	events := make([]activity.Event, 0)
	q := `
SELECT e.* FROM event e
JOIN school_event_association sea ON sea.event_id = e.id
WHERE sea.school_id = $1 AND e.date < $2
ORDER BY e.date DESC`
	if err := repo.db.SelectContext(ctx, &events, q, schoolID, before); err != nil {
		return nil, errors.Wrap(err, "listing school events")
	}
	return events, nil
}

func (repo activityRepository) CreateRole(ctx context.Context, r activity.Role) (activity.Role, error) {
	q := `INSERT INTO role (name) VALUES ($1) RETURNING id`
	if err := repo.db.GetContext(ctx, &r.ID, q, r.Name); err != nil {
		return activity.Role{}, errors.Wrap(err, "inserting role")
	}
	return r, nil
}

func (repo activityRepository) RoleExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`, id)
}

func (repo activityRepository) RolesByEvent(ctx context.Context, eventID int) ([]activity.Role, error) {
	roles := make([]activity.Role, 0)
	q := `
SELECT r.* FROM role r
JOIN event_role_association era ON era.role_id = r.id
WHERE era.event_id = $1
ORDER BY r.id`
	if err := repo.db.SelectContext(ctx, &roles, q, eventID); err != nil {
		return nil, errors.Wrap(err, "listing event roles")
	}
	return roles, nil
}

func (repo activityRepository) RolesByTeam(ctx context.Context, teamID int) ([]activity.Role, error) {
	roles := make([]activity.Role, 0)
	q := `
SELECT r.* FROM role r
JOIN team_role_association tra ON tra.role_id = r.id
WHERE tra.team_id = $1
ORDER BY r.id`
	if err := repo.db.SelectContext(ctx, &roles, q, teamID); err != nil {
		return nil, errors.Wrap(err, "listing team roles")
	}
	return roles, nil
}

func (repo activityRepository) LinkSchoolEvent(ctx context.Context, l activity.SchoolEventLink) error {
	q := `INSERT INTO school_event_association (school_id, event_id, supervisor, supervisor_contact) VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, q, l.SchoolID, l.EventID, l.Supervisor, l.SupervisorContact); err != nil {
		if isUniqueViolation(err) {
			return activity.ErrSchoolEventLink
		}
		return errors.Wrap(err, "linking school event")
	}
	return nil
}

func (repo activityRepository) LinkEventRole(ctx context.Context, l activity.EventRoleLink) error {
	q := `INSERT INTO event_role_association (event_id, role_id) VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, q, l.EventID, l.RoleID); err != nil {
		if isUniqueViolation(err) {
			return activity.ErrEventRoleLink
		}
		return errors.Wrap(err, "linking event role")
	}
	return nil
}

func (repo activityRepository) LinkTeamRole(ctx context.Context, l activity.TeamRoleLink) error {
	q := `INSERT INTO team_role_association (team_id, role_id) VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, q, l.TeamID, l.RoleID); err != nil {
		if isUniqueViolation(err) {
			return activity.ErrTeamRoleLink
		}
		return errors.Wrap(err, "linking team role")
	}
	return nil
}

func (repo activityRepository) SchoolExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM school WHERE id = $1)`, id)
}

func (repo activityRepository) TeamExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM team WHERE id = $1)`, id)
}
