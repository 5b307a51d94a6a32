package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/dmecc/volunteerhub/core/record"
)

type recordRepository struct {
	db *DB
}

var _ record.Repository = (*recordRepository)(nil)

func NewRecordRepository(db *DB) *recordRepository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) CreateVolunteerRecord(_ context.Context, vr record.VolunteerRecord) (record.VolunteerRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	vr.ID = repo.db.nextPK()
	repo.db.volunteerRecords[vr.ID] = &vr
	return vr, nil
}

func (repo *recordRepository) CreateTrainingRecord(_ context.Context, tr record.TrainingRecord) (record.TrainingRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tr.ID = repo.db.nextPK()
	repo.db.trainingRecords[tr.ID] = &tr
	return tr, nil
}

func (repo *recordRepository) CreateFeedback(_ context.Context, fb record.Feedback) (record.Feedback, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	fb.ID = repo.db.nextPK()
	repo.db.feedback[fb.ID] = &fb
	return fb, nil
}

func (repo *recordRepository) CreateRequest(_ context.Context, req record.Request) (record.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req.ID = repo.db.nextPK()
	repo.db.requests[req.ID] = &req
	return req, nil
}

func (repo *recordRepository) CreatePayment(_ context.Context, p record.Payment) (record.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = repo.db.nextPK()
	repo.db.payments[p.ID] = &p
	return p, nil
}

func (repo *recordRepository) EntriesByUser(_ context.Context, userID int, before time.Time) ([]record.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]record.Entry, 0)
	for _, vr := range repo.db.volunteerRecords {
		if vr.UserID != userID || !vr.Date.Before(before) {
			continue
		}
		var position, act string
		if r, ok := repo.db.roles[vr.RoleID]; ok {
			position = r.Name
		}
		if vr.TeamID != nil {
			if t, ok := repo.db.teams[*vr.TeamID]; ok {
				act = t.Name
			}
		} else if vr.EventID != nil {
			if evt, ok := repo.db.events[*vr.EventID]; ok {
				act = evt.Name
			}
		}
		entries = append(entries, record.Entry{Date: vr.Date, Activity: act, Position: position, Hours: vr.Hours})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	return entries, nil
}

func (repo *recordRepository) TotalHours(_ context.Context, userID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.totalHours(userID), nil
}

// totalHours must be called with the lock held.
func (repo *recordRepository) totalHours(userID int) int {
	var total int
	for _, vr := range repo.db.volunteerRecords {
		if vr.UserID == userID {
			total += vr.Hours
		}
	}
	return total
}

func (repo *recordRepository) TopVolunteers(_ context.Context, limit int) ([]record.LeaderboardRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]record.LeaderboardRow, 0, len(repo.db.users))
	for _, usr := range repo.db.users {
		row := record.LeaderboardRow{
			FirstName:     usr.FirstName,
			LastName:      usr.LastName,
			TrainingLevel: null.NewString(usr.TrainingLevel, usr.TrainingLevel != ""),
			Rank:          null.NewString(usr.Rank, usr.Rank != ""),
			StartDate:     null.NewTime(usr.StartDate, !usr.StartDate.IsZero()),
			TotalHours:    repo.totalHours(usr.ID),
		}
		if usr.SchoolID != nil {
			if s, ok := repo.db.schools[*usr.SchoolID]; ok {
				row.SchoolAbbr = null.StringFrom(s.Abbreviation)
				if r, ok := repo.db.regions[s.RegionID]; ok {
					row.RegionAbbr = null.StringFrom(r.Abbreviation)
					row.Country = null.StringFrom(r.Country)
				}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (repo *recordRepository) EventExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.events[id]
	return ok, nil
}

func (repo *recordRepository) TeamExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.teams[id]
	return ok, nil
}

func (repo *recordRepository) RoleExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.roles[id]
	return ok, nil
}

func (repo *recordRepository) UserExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.users[id]
	return ok, nil
}
