package activity

import (
	"time"

	"github.com/dmecc/volunteerhub/core"
)

type (
	Event struct {
		ID   int       `json:"id"`
		Name string    `json:"name"`
		Date time.Time `json:"date"`
	}

	Role struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	SchoolEventLink struct {
		SchoolID          int    `json:"school_id" validate:"required"`
		EventID           int    `json:"event_id" validate:"required"`
		Supervisor        string `json:"supervisor" validate:"required,min=3"`
		SupervisorContact string `json:"supervisor_contact" validate:"required,min=5"`
	}

	EventRoleLink struct {
		EventID int `json:"event_id" validate:"required"`
		RoleID  int `json:"role_id" validate:"required"`
	}

	TeamRoleLink struct {
		TeamID int `json:"team_id" validate:"required"`
		RoleID int `json:"role_id" validate:"required"`
	}

	NewEvent struct {
		Name string    `json:"name" validate:"required,min=6"`
		Date time.Time `json:"date" validate:"required"`
	}

	NewRole struct {
		Name string `json:"name" validate:"required,min=2"`
	}
)

func (ne *NewEvent) Clean() {
	ne.Name = core.CleanString(ne.Name)
}

func (nr *NewRole) Clean() {
	nr.Name = core.CleanString(nr.Name)
}

func (l *SchoolEventLink) Clean() {
	l.Supervisor = core.CleanString(l.Supervisor)
	l.SupervisorContact = core.CleanString(l.SupervisorContact)
}
