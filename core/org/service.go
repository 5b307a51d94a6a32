package org

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core"
)

var (
	// errors
	ErrNotFound         = errors.New("not found")
	ErrRegionExists     = errors.New("There is already a region with this name")
	ErrProgramExists    = errors.New("There is already a program with this name")
	ErrSchoolExists     = errors.New("School with this name or abbreviation already exists")
	ErrMembershipExists = errors.New("This user is already a member of this team under this role")
	ErrUserTraitExists  = errors.New("This user already has this trait")

	errRegionDoesNotExist  = "This region does not exist"
	errProgramDoesNotExist = "This program does not exist"
	errTeamDoesNotExist    = "This team does not exist"
	errRoleDoesNotExist    = "This role does not exist"
	errUserDoesNotExist    = "This user does not exist"
	errTraitDoesNotExist   = "This trait does not exist"
)

type (
	Repository interface {
		CreateRegion(ctx context.Context, r Region) (Region, error)
		GetRegionByID(ctx context.Context, id int) (Region, error)
		GetRegionByName(ctx context.Context, name string) (Region, error)

		CreateProgram(ctx context.Context, p Program) (Program, error)
		GetProgramByID(ctx context.Context, id int) (Program, error)

		CreateSchool(ctx context.Context, s School) (School, error)
		GetSchoolByID(ctx context.Context, id int) (School, error)
		GetSchoolByNameOrAbbr(ctx context.Context, name, abbr string) (School, error)
		SchoolExists(ctx context.Context, id int) (bool, error)

		CreateTeam(ctx context.Context, t Team) (Team, error)
		GetTeamByID(ctx context.Context, id int) (Team, error)
		TeamExists(ctx context.Context, id int) (bool, error)
		TeamsByUser(ctx context.Context, userID int) ([]Team, error)

		CreateTrait(ctx context.Context, t Trait) (Trait, error)
		TraitExists(ctx context.Context, id int) (bool, error)

		AddTeamMember(ctx context.Context, m TeamMembership) error
		AddUserTrait(ctx context.Context, a UserTraitAssociation) error

		UserExists(ctx context.Context, id int) (bool, error)
		RoleExists(ctx context.Context, id int) (bool, error)
	}

	Service interface {
		CreateRegion(ctx context.Context, nr NewRegion) (Region, error)
		CreateProgram(ctx context.Context, np NewProgram) (Program, error)
		CreateSchool(ctx context.Context, ns NewSchool) (School, error)
		CreateTeam(ctx context.Context, nt NewTeam) (Team, error)
		CreateTrait(ctx context.Context, nt NewTrait) (Trait, error)
		AddUserToTeam(ctx context.Context, m TeamMembership) error
		AddTraitToUser(ctx context.Context, a UserTraitAssociation) error
		TeamsByUser(ctx context.Context, userID int) ([]Team, error)
	}

	service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) Service {
	return &service{
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *service) CreateRegion(ctx context.Context, nr NewRegion) (Region, error) {
	nr.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &nr)
	if nr.Name != "" {
		if _, err := svc.repo.GetRegionByName(ctx, nr.Name); err == nil {
			flds = append(flds, core.FieldError{Field: "all", Error: ErrRegionExists.Error()})
		} else if errors.Cause(err) != ErrNotFound {
			return Region{}, errors.Wrap(err, "checking region uniqueness")
		}
	}
	if len(flds) > 0 {
		return Region{}, core.NewValidationError(nil, flds...)
	}

	r, err := svc.repo.CreateRegion(ctx, Region{Country: nr.Country, Name: nr.Name, Abbreviation: nr.Abbreviation})
	if err != nil {
		// unique constraint is the backstop for concurrent creates
		if errors.Cause(err) == ErrRegionExists {
			return Region{}, core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrRegionExists.Error()})
		}
		return Region{}, errors.Wrap(err, "creating region")
	}
	return r, nil
}

func (svc *service) CreateProgram(ctx context.Context, np NewProgram) (Program, error) {
	np.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &np)
	if np.RegionID != 0 {
		if _, err := svc.repo.GetRegionByID(ctx, np.RegionID); err != nil {
			if errors.Cause(err) != ErrNotFound {
				return Program{}, errors.Wrap(err, "finding region")
			}
			flds = append(flds, core.FieldError{Field: "region_id", Error: errRegionDoesNotExist})
		}
	}
	if len(flds) > 0 {
		return Program{}, core.NewValidationError(nil, flds...)
	}

	p, err := svc.repo.CreateProgram(ctx, Program{Name: np.Name, RegionID: np.RegionID})
	if err != nil {
		if errors.Cause(err) == ErrProgramExists {
			return Program{}, core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrProgramExists.Error()})
		}
		return Program{}, errors.Wrap(err, "creating program")
	}
	return p, nil
}

func (svc *service) CreateSchool(ctx context.Context, ns NewSchool) (School, error) {
	ns.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &ns)
	if ns.RegionID != 0 {
		if _, err := svc.repo.GetRegionByID(ctx, ns.RegionID); err != nil {
			if errors.Cause(err) != ErrNotFound {
				return School{}, errors.Wrap(err, "finding region")
			}
			flds = append(flds, core.FieldError{Field: "region_id", Error: errRegionDoesNotExist})
		}
	}
	if ns.Name != "" || ns.Abbreviation != "" {
		if _, err := svc.repo.GetSchoolByNameOrAbbr(ctx, ns.Name, ns.Abbreviation); err == nil {
			flds = append(flds, core.FieldError{Field: "all", Error: ErrSchoolExists.Error()})
		} else if errors.Cause(err) != ErrNotFound {
			return School{}, errors.Wrap(err, "checking school uniqueness")
		}
	}
	if len(flds) > 0 {
		return School{}, core.NewValidationError(nil, flds...)
	}

	s, err := svc.repo.CreateSchool(ctx, School{Abbreviation: ns.Abbreviation, Name: ns.Name, RegionID: ns.RegionID})
	if err != nil {
		if errors.Cause(err) == ErrSchoolExists {
			return School{}, core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrSchoolExists.Error()})
		}
		return School{}, errors.Wrap(err, "creating school")
	}
	return s, nil
}

func (svc *service) CreateTeam(ctx context.Context, nt NewTeam) (Team, error) {
	nt.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &nt)
	if nt.ProgramID != 0 {
		if _, err := svc.repo.GetProgramByID(ctx, nt.ProgramID); err != nil {
			if errors.Cause(err) != ErrNotFound {
				return Team{}, errors.Wrap(err, "finding program")
			}
			flds = append(flds, core.FieldError{Field: "program_id", Error: errProgramDoesNotExist})
		}
	}
	if len(flds) > 0 {
		return Team{}, core.NewValidationError(nil, flds...)
	}

	t, err := svc.repo.CreateTeam(ctx, Team{Name: nt.Name, ProgramID: nt.ProgramID})
	if err != nil {
		return Team{}, errors.Wrap(err, "creating team")
	}
	return t, nil
}

func (svc *service) CreateTrait(ctx context.Context, nt NewTrait) (Trait, error) {
	nt.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &nt)
	if len(flds) > 0 {
		return Trait{}, core.NewValidationError(nil, flds...)
	}

	t, err := svc.repo.CreateTrait(ctx, Trait{Name: nt.Name})
	if err != nil {
		return Trait{}, errors.Wrap(err, "creating trait")
	}
	return t, nil
}

func (svc *service) AddUserToTeam(ctx context.Context, m TeamMembership) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &m)
	for _, chk := range []existenceCheck{
		{"team_id", m.TeamID, svc.repo.TeamExists, errTeamDoesNotExist},
		// TODO: also require the role to be linked to the team (team_role_association)
		{"role_id", m.RoleID, svc.repo.RoleExists, errRoleDoesNotExist},
		{"user_id", m.UserID, svc.repo.UserExists, errUserDoesNotExist},
	} {
		fld, err := chk.run(ctx)
		if err != nil {
			return errors.Wrapf(err, "checking %s", chk.field)
		}
		flds = append(flds, fld...)
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.AddTeamMember(ctx, m); err != nil {
		if errors.Cause(err) == ErrMembershipExists {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrMembershipExists.Error()})
		}
		return errors.Wrap(err, "adding team member")
	}
	return nil
}

func (svc *service) AddTraitToUser(ctx context.Context, a UserTraitAssociation) error {
	if a.Count == 0 {
		a.Count = 1
	}
	flds := core.CheckStruct(svc.validate, svc.translator, &a)
	for _, chk := range []existenceCheck{
		{"user_id", a.UserID, svc.repo.UserExists, errUserDoesNotExist},
		{"trait_id", a.TraitID, svc.repo.TraitExists, errTraitDoesNotExist},
	} {
		fld, err := chk.run(ctx)
		if err != nil {
			return errors.Wrapf(err, "checking %s", chk.field)
		}
		flds = append(flds, fld...)
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.AddUserTrait(ctx, a); err != nil {
		if errors.Cause(err) == ErrUserTraitExists {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrUserTraitExists.Error()})
		}
		return errors.Wrap(err, "adding user trait")
	}
	return nil
}

func (svc *service) TeamsByUser(ctx context.Context, userID int) ([]Team, error) {
	return svc.repo.TeamsByUser(ctx, userID)
}

type existenceCheck struct {
	field  string
	id     int
	exists func(context.Context, int) (bool, error)
	text   string
}

func (chk existenceCheck) run(ctx context.Context) ([]core.FieldError, error) {
	if chk.id == 0 {
		return nil, nil // `required` reports the zero case
	}
	ok, err := chk.exists(ctx, chk.id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []core.FieldError{{Field: chk.field, Error: chk.text}}, nil
	}
	return nil, nil
}
