// Package inmem provides map-backed repositories for tests and local dev.
package inmem

import (
	"sync"

	"github.com/dmecc/volunteerhub/core/activity"
	"github.com/dmecc/volunteerhub/core/org"
	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users           map[int]*user.User
	permissions     map[string]*user.Permission
	userPermissions []user.UserPermission

	regions   map[int]*org.Region
	programs  map[int]*org.Program
	schools   map[int]*org.School
	teams     map[int]*org.Team
	traits    map[int]*org.Trait
	members   []org.TeamMembership
	userTrait []org.UserTraitAssociation

	events      map[int]*activity.Event
	roles       map[int]*activity.Role
	schoolEvent []activity.SchoolEventLink
	eventRole   []activity.EventRoleLink
	teamRole    []activity.TeamRoleLink

	volunteerRecords map[int]*record.VolunteerRecord
	trainingRecords  map[int]*record.TrainingRecord
	feedback         map[int]*record.Feedback
	requests         map[int]*record.Request
	payments         map[int]*record.Payment

	pkCount int
}

func Open() *DB {
	return &DB{
		users:            make(map[int]*user.User),
		permissions:      make(map[string]*user.Permission),
		regions:          make(map[int]*org.Region),
		programs:         make(map[int]*org.Program),
		schools:          make(map[int]*org.School),
		teams:            make(map[int]*org.Team),
		traits:           make(map[int]*org.Trait),
		events:           make(map[int]*activity.Event),
		roles:            make(map[int]*activity.Role),
		volunteerRecords: make(map[int]*record.VolunteerRecord),
		trainingRecords:  make(map[int]*record.TrainingRecord),
		feedback:         make(map[int]*record.Feedback),
		requests:         make(map[int]*record.Request),
		payments:         make(map[int]*record.Payment),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pkCount++
	return db.pkCount
}
