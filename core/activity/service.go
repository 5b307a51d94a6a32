package activity

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSchoolEventLink = errors.New("This school is already linked to this event")
	ErrEventRoleLink   = errors.New("This role is already available at this event")
	ErrTeamRoleLink    = errors.New("This role is already available on this team")

	errEventDoesNotExist  = "This event does not exist"
	errRoleDoesNotExist   = "This role does not exist"
	errSchoolDoesNotExist = "This school doesn't exist"
	errTeamDoesNotExist   = "This team does not exist"
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		GetEventByID(ctx context.Context, id int) (Event, error)
		EventExists(ctx context.Context, id int) (bool, error)
		RecentEventsBySchool(ctx context.Context, schoolID int, before time.Time) ([]Event, error)

		CreateRole(ctx context.Context, r Role) (Role, error)
		RoleExists(ctx context.Context, id int) (bool, error)
		RolesByEvent(ctx context.Context, eventID int) ([]Role, error)
		RolesByTeam(ctx context.Context, teamID int) ([]Role, error)

		LinkSchoolEvent(ctx context.Context, l SchoolEventLink) error
		LinkEventRole(ctx context.Context, l EventRoleLink) error
		LinkTeamRole(ctx context.Context, l TeamRoleLink) error

		SchoolExists(ctx context.Context, id int) (bool, error)
		TeamExists(ctx context.Context, id int) (bool, error)
	}

	Service interface {
		CreateEvent(ctx context.Context, ne NewEvent) (Event, error)
		CreateRole(ctx context.Context, nr NewRole) (Role, error)
		LinkSchoolEvent(ctx context.Context, l SchoolEventLink) error
		LinkEventRole(ctx context.Context, l EventRoleLink) error
		LinkTeamRole(ctx context.Context, l TeamRoleLink) error
		RecentEventsBySchool(ctx context.Context, schoolID int) ([]Event, error)
		RolesByEvent(ctx context.Context, eventID int) ([]Role, error)
		RolesByTeam(ctx context.Context, teamID int) ([]Role, error)
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

func (svc *service) CreateEvent(ctx context.Context, ne NewEvent) (Event, error) {
	ne.Clean()

	if flds := core.CheckStruct(svc.validate, svc.translator, &ne); len(flds) > 0 {
		return Event{}, core.NewValidationError(nil, flds...)
	}

	evt, err := svc.repo.CreateEvent(ctx, Event{Name: ne.Name, Date: ne.Date})
	if err != nil {
		return Event{}, errors.Wrap(err, "creating event")
	}
	return evt, nil
}

func (svc *service) CreateRole(ctx context.Context, nr NewRole) (Role, error) {
	nr.Clean()

	if flds := core.CheckStruct(svc.validate, svc.translator, &nr); len(flds) > 0 {
		return Role{}, core.NewValidationError(nil, flds...)
	}

	r, err := svc.repo.CreateRole(ctx, Role{Name: nr.Name})
	if err != nil {
		return Role{}, errors.Wrap(err, "creating role")
	}
	return r, nil
}

func (svc *service) LinkSchoolEvent(ctx context.Context, l SchoolEventLink) error {
	l.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &l)
	flds, err := svc.appendExistence(ctx, flds, "school_id", l.SchoolID, svc.repo.SchoolExists, errSchoolDoesNotExist)
	if err != nil {
		return err
	}
	flds, err = svc.appendExistence(ctx, flds, "event_id", l.EventID, svc.repo.EventExists, errEventDoesNotExist)
	if err != nil {
		return err
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.LinkSchoolEvent(ctx, l); err != nil {
		if errors.Cause(err) == ErrSchoolEventLink {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrSchoolEventLink.Error()})
		}
		return errors.Wrap(err, "linking school to event")
	}
	return nil
}

func (svc *service) LinkEventRole(ctx context.Context, l EventRoleLink) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &l)
	flds, err := svc.appendExistence(ctx, flds, "event_id", l.EventID, svc.repo.EventExists, errEventDoesNotExist)
	if err != nil {
		return err
	}
	flds, err = svc.appendExistence(ctx, flds, "role_id", l.RoleID, svc.repo.RoleExists, errRoleDoesNotExist)
	if err != nil {
		return err
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.LinkEventRole(ctx, l); err != nil {
		if errors.Cause(err) == ErrEventRoleLink {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrEventRoleLink.Error()})
		}
		return errors.Wrap(err, "linking role to event")
	}
	return nil
}

func (svc *service) LinkTeamRole(ctx context.Context, l TeamRoleLink) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &l)
	flds, err := svc.appendExistence(ctx, flds, "team_id", l.TeamID, svc.repo.TeamExists, errTeamDoesNotExist)
	if err != nil {
		return err
	}
	flds, err = svc.appendExistence(ctx, flds, "role_id", l.RoleID, svc.repo.RoleExists, errRoleDoesNotExist)
	if err != nil {
		return err
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.LinkTeamRole(ctx, l); err != nil {
		if errors.Cause(err) == ErrTeamRoleLink {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrTeamRoleLink.Error()})
		}
		return errors.Wrap(err, "linking role to team")
	}
	return nil
}

// RecentEventsBySchool returns the school's past events, newest first.
func (svc *service) RecentEventsBySchool(ctx context.Context, schoolID int) ([]Event, error) {
	return svc.repo.RecentEventsBySchool(ctx, schoolID, time.Now())
}

func (svc *service) RolesByEvent(ctx context.Context, eventID int) ([]Role, error) {
	return svc.repo.RolesByEvent(ctx, eventID)
}

func (svc *service) RolesByTeam(ctx context.Context, teamID int) ([]Role, error) {
	return svc.repo.RolesByTeam(ctx, teamID)
}

func (svc *service) appendExistence(
	ctx context.Context,
	flds []core.FieldError,
	field string,
	id int,
	exists func(context.Context, int) (bool, error),
	text string,
) ([]core.FieldError, error) {
	if id == 0 {
		return flds, nil
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "checking %s", field)
	}
	if !ok {
		flds = append(flds, core.FieldError{Field: field, Error: text})
	}
	return flds, nil
}
