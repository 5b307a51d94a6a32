package record

import (
	"time"

	"github.com/dmecc/volunteerhub/core"
)

type (
	VolunteerRecord struct {
		ID         int       `json:"id"`
		Date       time.Time `json:"date"`
		Hours      int       `json:"hours"`
		Reflection string    `json:"reflection"`
		RoleID     int       `json:"role_id"`
		EventID    *int      `json:"event_id"`
		TeamID     *int      `json:"team_id"`
		UserID     int       `json:"user_id"`
	}

	TrainingRecord struct {
		ID        int       `json:"id"`
		Date      time.Time `json:"date"`
		Level     string    `json:"level"`
		Completed bool      `json:"completed"`
		CoachID   int       `json:"coach_id"`
		UserID    int       `json:"user_id"`
	}

	Feedback struct {
		ID         int       `json:"id"`
		Date       time.Time `json:"date"`
		Content    string    `json:"content"`
		ToUserID   int       `json:"to_user_id"`
		FromUserID int       `json:"from_user_id"`
	}

	Request struct {
		ID      int       `json:"id"`
		Date    time.Time `json:"date"`
		Purpose string    `json:"purpose"`
		Content string    `json:"content"`
		UserID  int       `json:"user_id"`
	}

	Payment struct {
		ID      int       `json:"id"`
		Date    time.Time `json:"date"`
		Amount  int       `json:"amount"`
		Purpose string    `json:"purpose"`
		UserID  int       `json:"user_id"`
	}

	NewVolunteerRecord struct {
		Date       time.Time `json:"date" validate:"required"`
		Hours      int       `json:"hours" validate:"required,hourscap"`
		Reflection string    `json:"reflection" validate:"required,min=25"`
		RoleID     int       `json:"role_id" validate:"required"`
		EventID    *int      `json:"event_id"`
		TeamID     *int      `json:"team_id"`
	}

	NewTrainingRecord struct {
		Date      time.Time `json:"date" validate:"required"`
		Level     string    `json:"level" validate:"required"`
		Completed bool      `json:"completed"`
		CoachID   int       `json:"coach_id" validate:"required"`
	}

	NewFeedback struct {
		Date     time.Time `json:"date" validate:"required"`
		Content  string    `json:"content" validate:"required,min=5"`
		ToUserID int       `json:"to_user_id" validate:"required"`
	}

	NewRequest struct {
		Date    time.Time `json:"date" validate:"required"`
		Purpose string    `json:"purpose" validate:"required,purposedetail"`
		Content string    `json:"content" validate:"required,min=20"`
	}

	NewPayment struct {
		Date    time.Time `json:"date" validate:"required"`
		Amount  int       `json:"amount" validate:"required,amountcap"`
		Purpose string    `json:"purpose" validate:"required,min=10"`
		UserID  int       `json:"user_id" validate:"required"`
	}

	// Entry is a volunteer record flattened for display, the
	// activity being the team or event it was logged against.
	Entry struct {
		Date     time.Time `json:"date"`
		Activity string    `json:"activity"`
		Position string    `json:"position"`
		Hours    int       `json:"hours"`
	}

	// TopVolunteer is a leaderboard row. String fields fall back
	// to "_" when the underlying value is not set.
	TopVolunteer struct {
		Name   string `json:"name"`
		School string `json:"school"`
		Org    string `json:"org"`
		Loc    string `json:"loc"`
		Lvl    string `json:"lvl"`
		Yrs    int    `json:"yrs"`
		Hrs    int    `json:"hrs"`
		Rnk    string `json:"rnk"`
	}
)

func (nvr *NewVolunteerRecord) Clean() {
	nvr.Reflection = core.CleanString(nvr.Reflection)
}

func (nf *NewFeedback) Clean() {
	nf.Content = core.CleanString(nf.Content)
}

func (nr *NewRequest) Clean() {
	nr.Purpose = core.CleanString(nr.Purpose)
	nr.Content = core.CleanString(nr.Content)
}

func (np *NewPayment) Clean() {
	np.Purpose = core.CleanString(np.Purpose)
}
