package user

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmecc/volunteerhub/core"
)

// Scopes. A scope is a named permission granted to a user and embedded in
// their session token at login time.
const (
	ScopeMe        = "me"
	ScopeVolunteer = "volunteer"
	ScopeSchool    = "school"
	ScopeProgram   = "program"
	ScopeTeam      = "team"
	ScopeAdmin     = "admin"
)

var AllScopes = []string{ScopeMe, ScopeVolunteer, ScopeSchool, ScopeProgram, ScopeTeam, ScopeAdmin}

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash []byte `json:"-"`

	PreferredName         string `json:"preferred_name,omitempty"`
	PhotoPermission       bool   `json:"photo_permission,omitempty"`
	CommunicationID       string `json:"communication_id,omitempty"`
	PhoneNumber           string `json:"phone_number,omitempty"`
	ParentFirstName       string `json:"parent_first_name,omitempty"`
	ParentLastName        string `json:"parent_last_name,omitempty"`
	ParentEmail           string `json:"parent_email,omitempty"`
	ParentCommunicationID string `json:"parent_communication_id,omitempty"`
	ParentPhoneNumber     string `json:"parent_phone_number,omitempty"`

	GradeLevel      int       `json:"grade_level,omitempty"`
	EnglishLiteracy string    `json:"english_literacy,omitempty"`
	StartDate       time.Time `json:"start_date,omitempty"`
	TrainingLevel   string    `json:"training_level,omitempty"`
	Rank            string    `json:"rank,omitempty"`
	DesiredMajor    string    `json:"desired_major,omitempty"`
	VolunteerStatus string    `json:"volunteer_status,omitempty"`
	VolunteerGoals  string    `json:"volunteer_goals,omitempty"`

	SchoolID *int `json:"school_id,omitempty"`

	// Scopes holds the permission names currently linked to this user.
	Scopes []string `json:"scopes,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (u *User) Name() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) HasScope(scope string) bool {
	for _, s := range u.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type Permission struct {
	Name string `json:"name"`
}

// UserPermission links a user to a permission name; the pair is the
// link's composite identity.
type UserPermission struct {
	UserID         int    `json:"user_id" validate:"required"`
	PermissionName string `json:"permission_name" validate:"required"`
}

// NewPermission contains information needed to create a new Permission.
type NewPermission struct {
	Name string `json:"name" validate:"required,min=3"`
}

func (np *NewPermission) Clean() {
	np.Name = core.CleanString(np.Name, true /* lower */)
}

// SignupUser contains information needed to sign a new User up.
type SignupUser struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,min=2"`
	Password  string `json:"password" form:"password" validate:"required"`
}

func (su *SignupUser) Clean() {
	su.Email = core.CleanString(su.Email, true /* lower */)
	su.FirstName = core.CleanString(su.FirstName)
	su.LastName = core.CleanString(su.LastName)
}

// ChangePassword defines what is needed to change a logged-in user's password.
type ChangePassword struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

// ResetUserPassword confirms a password reset initiated by email.
type ResetUserPassword struct {
	Token       string `json:"token,omitempty" validate:"required"`
	UID         string `json:"uid,omitempty" validate:"required"`
	NewPassword string `json:"new_password,omitempty" validate:"required"`
}

// ProfilePatch is an explicit merge-patch over the user's profile columns:
// only fields present and non-empty overwrite existing values; absent
// fields are left untouched.
type ProfilePatch struct {
	PreferredName         *string `json:"preferred_name"`
	PhotoPermission       *bool   `json:"photo_permission"`
	CommunicationID       *string `json:"communication_id"`
	PhoneNumber           *string `json:"phone_number"`
	ParentFirstName       *string `json:"parent_first_name"`
	ParentLastName        *string `json:"parent_last_name"`
	ParentEmail           *string `json:"parent_email" validate:"omitempty,email"`
	ParentCommunicationID *string `json:"parent_communication_id"`
	ParentPhoneNumber     *string `json:"parent_phone_number"`
	GradeLevel            *int    `json:"grade_level"`
	EnglishLiteracy       *string `json:"english_literacy"`
	StartDate             *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TrainingLevel         *string `json:"training_level"`
	DesiredMajor          *string `json:"desired_major"`
	VolunteerStatus       *string `json:"volunteer_status"`
	VolunteerGoals        *string `json:"volunteer_goals"`
	SchoolID              *int    `json:"school_id"`
}

// Apply copies every present, non-empty patch field onto usr.
func (p *ProfilePatch) Apply(usr *User) {
	setStr := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = core.CleanString(*src)
		}
	}
	setStr(&usr.PreferredName, p.PreferredName)
	setStr(&usr.CommunicationID, p.CommunicationID)
	setStr(&usr.PhoneNumber, p.PhoneNumber)
	setStr(&usr.ParentFirstName, p.ParentFirstName)
	setStr(&usr.ParentLastName, p.ParentLastName)
	setStr(&usr.ParentCommunicationID, p.ParentCommunicationID)
	setStr(&usr.ParentPhoneNumber, p.ParentPhoneNumber)
	setStr(&usr.EnglishLiteracy, p.EnglishLiteracy)
	setStr(&usr.TrainingLevel, p.TrainingLevel)
	setStr(&usr.DesiredMajor, p.DesiredMajor)
	setStr(&usr.VolunteerStatus, p.VolunteerStatus)
	setStr(&usr.VolunteerGoals, p.VolunteerGoals)

	if p.ParentEmail != nil && *p.ParentEmail != "" {
		usr.ParentEmail = core.CleanString(*p.ParentEmail, true /* lower */)
	}
	if p.PhotoPermission != nil {
		usr.PhotoPermission = *p.PhotoPermission
	}
	if p.GradeLevel != nil && *p.GradeLevel != 0 {
		usr.GradeLevel = *p.GradeLevel
	}
	if p.StartDate != nil && *p.StartDate != "" {
		if t, err := time.Parse("2006-01-02", *p.StartDate); err == nil {
			usr.StartDate = t
		}
	}
	if p.SchoolID != nil && *p.SchoolID != 0 {
		id := *p.SchoolID
		usr.SchoolID = &id
	}
}

// FilledEntries counts how many patchable profile fields are set on usr.
func FilledEntries(usr User) int {
	var n int
	for _, s := range []string{
		usr.PreferredName, usr.CommunicationID, usr.PhoneNumber,
		usr.ParentFirstName, usr.ParentLastName, usr.ParentEmail,
		usr.ParentCommunicationID, usr.ParentPhoneNumber,
		usr.EnglishLiteracy, usr.TrainingLevel, usr.DesiredMajor,
		usr.VolunteerStatus, usr.VolunteerGoals,
	} {
		if s != "" {
			n++
		}
	}
	if usr.PhotoPermission {
		n++
	}
	if usr.GradeLevel != 0 {
		n++
	}
	if !usr.StartDate.IsZero() {
		n++
	}
	if usr.SchoolID != nil {
		n++
	}
	return n
}

// EncodeUID returns the user's ID in the form carried by password reset links.
func EncodeUID(usr User) string {
	return encodeUID(usr)
}

func decodeUserID(uid string) (int, error) {
	id, err := decodeUID(uid)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(id)
}
