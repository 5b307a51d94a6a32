package record

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dmecc/volunteerhub/core"
)

var (
	ErrNotFound = errors.New("record not found")

	errEventDoesNotExist  = "This event does not exist"
	errTeamDoesNotExist   = "This team does not exist"
	errRoleDoesNotExist   = "This role does not exist"
	errUserDoesNotExist   = "This user does not exist"
	errNotAValidCoach     = "The selected user is not a valid coach"
	errFeedbackBadUser    = "Cannot give feedback to this user"
	errNoTeamOrEvent      = "Volunteer record must be related to a team or event"
	errBothTeamAndEvent   = "Choose team or event, not both"
	topVolunteersPageSize = 10
)

type (
	// LeaderboardRow is a user joined with their school, region and
	// aggregated volunteer hours, as read from storage.
	LeaderboardRow struct {
		FirstName     string      `db:"first_name"`
		LastName      string      `db:"last_name"`
		SchoolAbbr    null.String `db:"school_abbr"`
		RegionAbbr    null.String `db:"region_abbr"`
		Country       null.String `db:"country"`
		TrainingLevel null.String `db:"training_level"`
		Rank          null.String `db:"rank"`
		StartDate     null.Time   `db:"start_date"`
		TotalHours    int         `db:"total_hours"`
	}

	Repository interface {
		CreateVolunteerRecord(ctx context.Context, vr VolunteerRecord) (VolunteerRecord, error)
		CreateTrainingRecord(ctx context.Context, tr TrainingRecord) (TrainingRecord, error)
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		CreateRequest(ctx context.Context, req Request) (Request, error)
		CreatePayment(ctx context.Context, p Payment) (Payment, error)

		EntriesByUser(ctx context.Context, userID int, before time.Time) ([]Entry, error)
		TotalHours(ctx context.Context, userID int) (int, error)
		TopVolunteers(ctx context.Context, limit int) ([]LeaderboardRow, error)

		EventExists(ctx context.Context, id int) (bool, error)
		TeamExists(ctx context.Context, id int) (bool, error)
		RoleExists(ctx context.Context, id int) (bool, error)
		UserExists(ctx context.Context, id int) (bool, error)
	}

	Service interface {
		LogVolunteerRecord(ctx context.Context, userID int, nvr NewVolunteerRecord) (VolunteerRecord, error)
		LogTrainingRecord(ctx context.Context, userID int, ntr NewTrainingRecord) (TrainingRecord, error)
		GiveFeedback(ctx context.Context, fromUserID int, nf NewFeedback) (Feedback, error)
		CreateRequest(ctx context.Context, userID int, nr NewRequest) (Request, error)
		LogPayment(ctx context.Context, np NewPayment) (Payment, error)
		EntriesByUser(ctx context.Context, userID int) ([]Entry, error)
		TotalHours(ctx context.Context, userID int) (int, error)
		TopVolunteers(ctx context.Context) ([]TopVolunteer, error)
	}

	service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
		nowFunc    func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) Service {
	return &service{
		repo:       repo,
		validate:   validate,
		translator: translator,
		nowFunc:    time.Now,
	}
}

func (svc *service) LogVolunteerRecord(ctx context.Context, userID int, nvr NewVolunteerRecord) (VolunteerRecord, error) {
	nvr.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &nvr)
	switch {
	case nvr.EventID == nil && nvr.TeamID == nil:
		flds = append(flds, core.FieldError{Field: "all", Error: errNoTeamOrEvent})
	case nvr.EventID != nil && nvr.TeamID != nil:
		flds = append(flds, core.FieldError{Field: "all", Error: errBothTeamAndEvent})
	}
	if nvr.EventID != nil {
		fld, err := checkExists(ctx, "event_id", *nvr.EventID, svc.repo.EventExists, errEventDoesNotExist)
		if err != nil {
			return VolunteerRecord{}, err
		}
		flds = append(flds, fld...)
	}
	if nvr.TeamID != nil {
		fld, err := checkExists(ctx, "team_id", *nvr.TeamID, svc.repo.TeamExists, errTeamDoesNotExist)
		if err != nil {
			return VolunteerRecord{}, err
		}
		flds = append(flds, fld...)
	}
	// TODO: role should be restricted to ones linked to the event/team and held by the user
	fld, err := checkExists(ctx, "role_id", nvr.RoleID, svc.repo.RoleExists, errRoleDoesNotExist)
	if err != nil {
		return VolunteerRecord{}, err
	}
	flds = append(flds, fld...)
	if len(flds) > 0 {
		return VolunteerRecord{}, core.NewValidationError(nil, flds...)
	}

	vr, err := svc.repo.CreateVolunteerRecord(ctx, VolunteerRecord{
		Date:       nvr.Date,
		Hours:      nvr.Hours,
		Reflection: nvr.Reflection,
		RoleID:     nvr.RoleID,
		EventID:    nvr.EventID,
		TeamID:     nvr.TeamID,
		UserID:     userID,
	})
	if err != nil {
		return VolunteerRecord{}, errors.Wrap(err, "creating volunteer record")
	}
	return vr, nil
}

func (svc *service) LogTrainingRecord(ctx context.Context, userID int, ntr NewTrainingRecord) (TrainingRecord, error) {
	flds := core.CheckStruct(svc.validate, svc.translator, &ntr)
	if ntr.CoachID != 0 {
		// TODO: also require the coach to hold a coaching permission
		ok, err := svc.repo.UserExists(ctx, ntr.CoachID)
		if err != nil {
			return TrainingRecord{}, errors.Wrap(err, "checking coach_id")
		}
		if !ok {
			flds = append(flds, core.FieldError{Field: "coach_id", Error: errNotAValidCoach})
		}
	}
	if len(flds) > 0 {
		return TrainingRecord{}, core.NewValidationError(nil, flds...)
	}

	tr, err := svc.repo.CreateTrainingRecord(ctx, TrainingRecord{
		Date:      ntr.Date,
		Level:     ntr.Level,
		Completed: ntr.Completed,
		CoachID:   ntr.CoachID,
		UserID:    userID,
	})
	if err != nil {
		return TrainingRecord{}, errors.Wrap(err, "creating training record")
	}
	return tr, nil
}

func (svc *service) GiveFeedback(ctx context.Context, fromUserID int, nf NewFeedback) (Feedback, error) {
	nf.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &nf)
	if nf.ToUserID != 0 {
		ok, err := svc.repo.UserExists(ctx, nf.ToUserID)
		if err != nil {
			return Feedback{}, errors.Wrap(err, "checking to_user_id")
		}
		if !ok || nf.ToUserID == fromUserID {
			flds = append(flds, core.FieldError{Field: "to_user_id", Error: errFeedbackBadUser})
		}
	}
	if len(flds) > 0 {
		return Feedback{}, core.NewValidationError(nil, flds...)
	}

	fb, err := svc.repo.CreateFeedback(ctx, Feedback{
		Date:       nf.Date,
		Content:    nf.Content,
		ToUserID:   nf.ToUserID,
		FromUserID: fromUserID,
	})
	if err != nil {
		return Feedback{}, errors.Wrap(err, "creating feedback")
	}
	return fb, nil
}

func (svc *service) CreateRequest(ctx context.Context, userID int, nr NewRequest) (Request, error) {
	nr.Clean()

	if flds := core.CheckStruct(svc.validate, svc.translator, &nr); len(flds) > 0 {
		return Request{}, core.NewValidationError(nil, flds...)
	}

	req, err := svc.repo.CreateRequest(ctx, Request{
		Date:    nr.Date,
		Purpose: nr.Purpose,
		Content: nr.Content,
		UserID:  userID,
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "creating request")
	}
	return req, nil
}

func (svc *service) LogPayment(ctx context.Context, np NewPayment) (Payment, error) {
	np.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &np)
	fld, err := checkExists(ctx, "user_id", np.UserID, svc.repo.UserExists, errUserDoesNotExist)
	if err != nil {
		return Payment{}, err
	}
	flds = append(flds, fld...)
	if len(flds) > 0 {
		return Payment{}, core.NewValidationError(nil, flds...)
	}

	p, err := svc.repo.CreatePayment(ctx, Payment{
		Date:    np.Date,
		Amount:  np.Amount,
		Purpose: np.Purpose,
		UserID:  np.UserID,
	})
	if err != nil {
		return Payment{}, errors.Wrap(err, "creating payment")
	}
	return p, nil
}

// EntriesByUser returns the user's past volunteer records, newest first.
func (svc *service) EntriesByUser(ctx context.Context, userID int) ([]Entry, error) {
	return svc.repo.EntriesByUser(ctx, userID, svc.nowFunc())
}

func (svc *service) TotalHours(ctx context.Context, userID int) (int, error) {
	return svc.repo.TotalHours(ctx, userID)
}

// TopVolunteers returns the leaderboard, ordered by total volunteer hours.
func (svc *service) TopVolunteers(ctx context.Context) ([]TopVolunteer, error) {
	rows, err := svc.repo.TopVolunteers(ctx, topVolunteersPageSize)
	if err != nil {
		return nil, errors.Wrap(err, "listing top volunteers")
	}

	now := svc.nowFunc()
	vols := make([]TopVolunteer, 0, len(rows))
	for _, row := range rows {
		var yrs int
		if row.StartDate.Valid {
			yrs = int(now.Sub(row.StartDate.Time).Hours() / 24 / 365)
		}
		vols = append(vols, TopVolunteer{
			Name:   row.FirstName + " " + row.LastName,
			School: orBlank(row.SchoolAbbr),
			Org:    orBlank(row.RegionAbbr),
			Loc:    orBlank(row.Country),
			Lvl:    orBlank(row.TrainingLevel),
			Yrs:    yrs,
			Hrs:    row.TotalHours,
			Rnk:    orBlank(row.Rank),
		})
	}
	return vols, nil
}

func orBlank(s null.String) string {
	if !s.Valid || s.String == "" {
		return "_"
	}
	return s.String
}

func checkExists(
	ctx context.Context,
	field string,
	id int,
	exists func(context.Context, int) (bool, error),
	text string,
) ([]core.FieldError, error) {
	if id == 0 {
		return nil, nil // `required` reports the zero case
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "checking %s", field)
	}
	if !ok {
		return []core.FieldError{{Field: field, Error: text}}, nil
	}
	return nil, nil
}
