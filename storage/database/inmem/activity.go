package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/dmecc/volunteerhub/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateEvent(_ context.Context, evt activity.Event) (activity.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	evt.ID = repo.db.nextPK()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *activityRepository) GetEventByID(_ context.Context, id int) (activity.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return activity.Event{}, activity.ErrNotFound
}

func (repo *activityRepository) EventExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.events[id]
	return ok, nil
}

func (repo *activityRepository) RecentEventsBySchool(_ context.Context, schoolID int, before time.Time) ([]activity.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]activity.Event, 0)
	for _, l := range repo.db.schoolEvent {
		if l.SchoolID != schoolID {
			continue
		}
		if evt, ok := repo.db.events[l.EventID]; ok && evt.Date.Before(before) {
			events = append(events, *evt)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

func (repo *activityRepository) CreateRole(_ context.Context, r activity.Role) (activity.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = repo.db.nextPK()
	repo.db.roles[r.ID] = &r
	return r, nil
}

func (repo *activityRepository) RoleExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.roles[id]
	return ok, nil
}

func (repo *activityRepository) RolesByEvent(_ context.Context, eventID int) ([]activity.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	roles := make([]activity.Role, 0)
	for _, l := range repo.db.eventRole {
		if l.EventID != eventID {
			continue
		}
		if r, ok := repo.db.roles[l.RoleID]; ok {
			roles = append(roles, *r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (repo *activityRepository) RolesByTeam(_ context.Context, teamID int) ([]activity.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	roles := make([]activity.Role, 0)
	for _, l := range repo.db.teamRole {
		if l.TeamID != teamID {
			continue
		}
		if r, ok := repo.db.roles[l.RoleID]; ok {
			roles = append(roles, *r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (repo *activityRepository) LinkSchoolEvent(_ context.Context, l activity.SchoolEventLink) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, lnk := range repo.db.schoolEvent {
		if lnk.SchoolID == l.SchoolID && lnk.EventID == l.EventID {
			return activity.ErrSchoolEventLink
		}
	}
	repo.db.schoolEvent = append(repo.db.schoolEvent, l)
	return nil
}

func (repo *activityRepository) LinkEventRole(_ context.Context, l activity.EventRoleLink) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, lnk := range repo.db.eventRole {
		if lnk == l {
			return activity.ErrEventRoleLink
		}
	}
	repo.db.eventRole = append(repo.db.eventRole, l)
	return nil
}

func (repo *activityRepository) LinkTeamRole(_ context.Context, l activity.TeamRoleLink) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, lnk := range repo.db.teamRole {
		if lnk == l {
			return activity.ErrTeamRoleLink
		}
	}
	repo.db.teamRole = append(repo.db.teamRole, l)
	return nil
}

func (repo *activityRepository) SchoolExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.schools[id]
	return ok, nil
}

func (repo *activityRepository) TeamExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.teams[id]
	return ok, nil
}
