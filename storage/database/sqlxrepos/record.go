package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dmecc/volunteerhub/core/record"
)

type volunteerRecordRow struct {
	ID         int       `db:"id"`
	Date       time.Time `db:"date"`
	Hours      int       `db:"hours"`
	Reflection string    `db:"reflection"`
	RoleID     int       `db:"role_id"`
	EventID    null.Int  `db:"event_id"`
	TeamID     null.Int  `db:"team_id"`
	UserID     int       `db:"user_id"`
}

type recordRepository struct {
	db *sqlx.DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *sqlx.DB) *recordRepository {
	return &recordRepository{db: db}
}

func (repo recordRepository) exists(ctx context.Context, query string, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, query, id)
	return exists, errors.Wrap(err, "checking existence")
}

func (repo recordRepository) CreateVolunteerRecord(ctx context.Context, vr record.VolunteerRecord) (record.VolunteerRecord, error) {
	q := `
INSERT INTO volunteer_record (date, hours, reflection, role_id, event_id, team_id, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.GetContext(ctx, &vr.ID, q,
		vr.Date, vr.Hours, vr.Reflection, vr.RoleID, null.IntFromPtr(vr.EventID), null.IntFromPtr(vr.TeamID), vr.UserID)
	if err != nil {
		return record.VolunteerRecord{}, errors.Wrap(err, "inserting volunteer record")
	}
	return vr, nil
}

func (repo recordRepository) CreateTrainingRecord(ctx context.Context, tr record.TrainingRecord) (record.TrainingRecord, error) {
	q := `
INSERT INTO training_record (date, level, completed, coach_id, user_id)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &tr.ID, q, tr.Date, tr.Level, tr.Completed, tr.CoachID, tr.UserID)
	if err != nil {
		return record.TrainingRecord{}, errors.Wrap(err, "inserting training record")
	}
	return tr, nil
}

func (repo recordRepository) CreateFeedback(ctx context.Context, fb record.Feedback) (record.Feedback, error) {
	q := `
INSERT INTO feedback (date, content, to_user_id, from_user_id)
VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.GetContext(ctx, &fb.ID, q, fb.Date, fb.Content, fb.ToUserID, fb.FromUserID)
	if err != nil {
		return record.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return fb, nil
}

func (repo recordRepository) CreateRequest(ctx context.Context, req record.Request) (record.Request, error) {
	q := `
INSERT INTO request (date, purpose, content, user_id)
VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.GetContext(ctx, &req.ID, q, req.Date, req.Purpose, req.Content, req.UserID)
	if err != nil {
		return record.Request{}, errors.Wrap(err, "inserting request")
	}
	return req, nil
}

func (repo recordRepository) CreatePayment(ctx context.Context, p record.Payment) (record.Payment, error) {
	q := `
INSERT INTO payment (date, amount, purpose, user_id)
VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.GetContext(ctx, &p.ID, q, p.Date, p.Amount, p.Purpose, p.UserID)
	if err != nil {
		return record.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return p, nil
}

// EntriesByUser joins each past record with the team or event it was logged
// against and the role held, newest first.
func (repo recordRepository) EntriesByUser(ctx context.Context, userID int, before time.Time) ([]record.Entry, error) {
	entries := make([]record.Entry, 0)
	q := `
SELECT vr.date, COALESCE(t.name, e.name, '') AS activity, r.name AS position, vr.hours
FROM volunteer_record vr
JOIN role r ON r.id = vr.role_id
LEFT JOIN team t ON t.id = vr.team_id
LEFT JOIN event e ON e.id = vr.event_id
WHERE vr.user_id = $1 AND vr.date < $2
ORDER BY vr.date DESC`
	if err := repo.db.SelectContext(ctx, &entries, q, userID, before); err != nil {
		return nil, errors.Wrap(err, "listing volunteer records")
	}
	return entries, nil
}

func (repo recordRepository) TotalHours(ctx context.Context, userID int) (int, error) {
	var total int
	q := `SELECT COALESCE(SUM(hours), 0) FROM volunteer_record WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &total, q, userID); err != nil {
		return 0, errors.Wrap(err, "summing volunteer hours")
	}
	return total, nil
}

func (repo recordRepository) TopVolunteers(ctx context.Context, limit int) ([]record.LeaderboardRow, error) {
	rows := make([]record.LeaderboardRow, 0, limit)
	q := `
SELECT
	u.first_name, u.last_name, u.training_level, u.rank, u.start_date,
	s.abbreviation AS school_abbr, r.abbreviation AS region_abbr, r.country,
	COALESCE(SUM(vr.hours), 0) AS total_hours
FROM "user" u
LEFT JOIN school s ON s.id = u.school_id
LEFT JOIN region r ON r.id = s.region_id
LEFT JOIN volunteer_record vr ON vr.user_id = u.id
GROUP BY u.id, s.id, r.id
ORDER BY total_hours DESC
LIMIT $1`
	if err := repo.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, errors.Wrap(err, "listing top volunteers")
	}
	return rows, nil
}

func (repo recordRepository) EventExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)`, id)
}

func (repo recordRepository) TeamExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM team WHERE id = $1)`, id)
}

func (repo recordRepository) RoleExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`, id)
}

func (repo recordRepository) UserExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, `SELECT EXISTS (SELECT 1 FROM "user" WHERE id = $1)`, id)
}
