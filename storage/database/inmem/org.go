package inmem

import (
	"context"

	"github.com/dmecc/volunteerhub/core/org"
)

type orgRepository struct {
	db *DB
}

var _ org.Repository = (*orgRepository)(nil)

func NewOrgRepository(db *DB) *orgRepository {
	return &orgRepository{db: db}
}

func (repo *orgRepository) CreateRegion(_ context.Context, r org.Region) (org.Region, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, rg := range repo.db.regions {
		if rg.Name == r.Name {
			return org.Region{}, org.ErrRegionExists
		}
	}
	r.ID = repo.db.nextPK()
	repo.db.regions[r.ID] = &r
	return r, nil
}

func (repo *orgRepository) GetRegionByID(_ context.Context, id int) (org.Region, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.regions[id]; ok {
		return *r, nil
	}
	return org.Region{}, org.ErrNotFound
}

func (repo *orgRepository) GetRegionByName(_ context.Context, name string) (org.Region, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.db.regions {
		if r.Name == name {
			return *r, nil
		}
	}
	return org.Region{}, org.ErrNotFound
}

func (repo *orgRepository) CreateProgram(_ context.Context, p org.Program) (org.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, pg := range repo.db.programs {
		if pg.Name == p.Name {
			return org.Program{}, org.ErrProgramExists
		}
	}
	p.ID = repo.db.nextPK()
	repo.db.programs[p.ID] = &p
	return p, nil
}

func (repo *orgRepository) GetProgramByID(_ context.Context, id int) (org.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.programs[id]; ok {
		return *p, nil
	}
	return org.Program{}, org.ErrNotFound
}

func (repo *orgRepository) CreateSchool(_ context.Context, s org.School) (org.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, sc := range repo.db.schools {
		if sc.Name == s.Name || sc.Abbreviation == s.Abbreviation {
			return org.School{}, org.ErrSchoolExists
		}
	}
	s.ID = repo.db.nextPK()
	repo.db.schools[s.ID] = &s
	return s, nil
}

func (repo *orgRepository) GetSchoolByID(_ context.Context, id int) (org.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.schools[id]; ok {
		return *s, nil
	}
	return org.School{}, org.ErrNotFound
}

func (repo *orgRepository) GetSchoolByNameOrAbbr(_ context.Context, name, abbr string) (org.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.schools {
		if s.Name == name || s.Abbreviation == abbr {
			return *s, nil
		}
	}
	return org.School{}, org.ErrNotFound
}

func (repo *orgRepository) SchoolExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.schools[id]
	return ok, nil
}

func (repo *orgRepository) CreateTeam(_ context.Context, t org.Team) (org.Team, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = repo.db.nextPK()
	repo.db.teams[t.ID] = &t
	return t, nil
}

func (repo *orgRepository) GetTeamByID(_ context.Context, id int) (org.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.teams[id]; ok {
		return *t, nil
	}
	return org.Team{}, org.ErrNotFound
}

func (repo *orgRepository) TeamExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.teams[id]
	return ok, nil
}

func (repo *orgRepository) TeamsByUser(_ context.Context, userID int) ([]org.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teams := make([]org.Team, 0)
	seen := make(map[int]bool)
	for _, m := range repo.db.members {
		if m.UserID != userID || seen[m.TeamID] {
			continue
		}
		seen[m.TeamID] = true
		if t, ok := repo.db.teams[m.TeamID]; ok {
			teams = append(teams, *t)
		}
	}
	return teams, nil
}

func (repo *orgRepository) CreateTrait(_ context.Context, t org.Trait) (org.Trait, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = repo.db.nextPK()
	repo.db.traits[t.ID] = &t
	return t, nil
}

func (repo *orgRepository) TraitExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.traits[id]
	return ok, nil
}

func (repo *orgRepository) AddTeamMember(_ context.Context, m org.TeamMembership) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range repo.db.members {
		if l == m {
			return org.ErrMembershipExists
		}
	}
	repo.db.members = append(repo.db.members, m)
	return nil
}

func (repo *orgRepository) AddUserTrait(_ context.Context, a org.UserTraitAssociation) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range repo.db.userTrait {
		if l.UserID == a.UserID && l.TraitID == a.TraitID {
			return org.ErrUserTraitExists
		}
	}
	repo.db.userTrait = append(repo.db.userTrait, a)
	return nil
}

func (repo *orgRepository) UserExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.users[id]
	return ok, nil
}

func (repo *orgRepository) RoleExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.roles[id]
	return ok, nil
}
