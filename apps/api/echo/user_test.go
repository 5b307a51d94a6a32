package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dmecc/volunteerhub/core/org"
	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
)

func Test_currentUser(t *testing.T) {
	usr := createTestUser(t, "current@test.cd", user.ScopeMe, user.ScopeVolunteer)

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: errNotLoggedInBody,
		},
		{
			name:     "ok",
			token:    getToken(t, usr),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, currentUserResponse{User: usr, FilledEntries: 0}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/user/current-user", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_updateProfile(t *testing.T) {
	usr := createTestUser(t, "profile@test.cd", user.ScopeVolunteer)

	t.Run("school does not exist", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"school_id": 99999}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"school_id": "This school doesn't exist"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/user/update-profile", getToken(t, usr), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grade level only", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"grade_level": 11}`),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Updated profile!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/user/update-profile", getToken(t, usr), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if refreshed.GradeLevel != 11 {
			t.Errorf("GradeLevel = %d; want 11", refreshed.GradeLevel)
		}
		// untouched fields survive the patch
		if refreshed.FirstName != usr.FirstName {
			t.Errorf("FirstName = %s; want %s", refreshed.FirstName, usr.FirstName)
		}
	})

	t.Run("second patch keeps earlier values", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"preferred_name": "Sam"}`),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Updated profile!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/user/update-profile", getToken(t, usr), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if refreshed.PreferredName != "Sam" {
			t.Errorf("PreferredName = %s; want Sam", refreshed.PreferredName)
		}
		if refreshed.GradeLevel != 11 {
			t.Errorf("GradeLevel = %d; want 11 after unrelated patch", refreshed.GradeLevel)
		}
	})
}

func Test_giveFeedback(t *testing.T) {
	usr := createTestUser(t, "feedback-from@test.cd", user.ScopeVolunteer)
	peer := createTestUser(t, "feedback-to@test.cd")

	tests := []httpTest{
		{
			name:     "feedback to self",
			body:     marchallObj(t, record.NewFeedback{Date: time.Now(), Content: "Great hustle out there", ToUserID: usr.ID}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"to_user_id": "Cannot give feedback to this user"}`),
		},
		{
			name:     "unknown recipient",
			body:     marchallObj(t, record.NewFeedback{Date: time.Now(), Content: "Great hustle out there", ToUserID: 99999}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"to_user_id": "Cannot give feedback to this user"}`),
		},
		{
			name:     "ok",
			body:     marchallObj(t, record.NewFeedback{Date: time.Now(), Content: "Great hustle out there", ToUserID: peer.ID}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Gave feedback!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/user/give-feedback", getToken(t, usr), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_logVolunteerRecord(t *testing.T) {
	usr := createTestUser(t, "vrecord@test.cd", user.ScopeVolunteer)
	team := createTestTeam(t, "Record Keepers", 0)
	event := createTestEvent(t, "Record Drive", time.Now().Add(-time.Hour))
	role := createTestRole(t, "Runner")

	reflection := "Helped carry boxes and sort all the donations."
	date := time.Now().Add(-3 * time.Hour)
	laterDate := time.Now().Add(-2 * time.Hour)

	tests := []httpTest{
		{
			name: "neither team nor event",
			body: marchallObj(t, record.NewVolunteerRecord{
				Date: date, Hours: 3, Reflection: reflection, RoleID: role.ID,
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "Volunteer record must be related to a team or event"}`),
		},
		{
			name: "both team and event",
			body: marchallObj(t, record.NewVolunteerRecord{
				Date: date, Hours: 3, Reflection: reflection, RoleID: role.ID,
				EventID: &event.ID, TeamID: &team.ID,
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "Choose team or event, not both"}`),
		},
		{
			name: "event does not exist",
			body: []byte(fmt.Sprintf(
				`{"date": %q, "hours": 3, "reflection": %q, "role_id": %d, "event_id": 99999}`,
				date.Format(time.RFC3339), reflection, role.ID,
			)),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"event_id": "This event does not exist"}`),
		},
		{
			name: "too many hours and short reflection",
			body: marchallObj(t, record.NewVolunteerRecord{
				Date: date, Hours: 21, Reflection: "Helped out", RoleID: role.ID, TeamID: &team.ID,
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{
				"hours": "You are entering in a large amount of hours at once. Please contact a team leader/admin to submit hours",
				"reflection": "reflection must be at least 25 characters in length"
			}`),
		},
		{
			name: "ok with team",
			body: marchallObj(t, record.NewVolunteerRecord{
				Date: date, Hours: 3, Reflection: reflection, RoleID: role.ID, TeamID: &team.ID,
			}),
			wantCode: http.StatusOK,
		},
		{
			name: "ok with event",
			body: marchallObj(t, record.NewVolunteerRecord{
				Date: laterDate, Hours: 2, Reflection: reflection, RoleID: role.ID, EventID: &event.ID,
			}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Logged volunteer record!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/user/log-volunteer-record", getToken(t, usr), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("total hours", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"total_hours": 5}`),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/user/total-hours", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("recent records", func(t *testing.T) {
		// newest first
		wantEntries := []record.Entry{
			{Date: laterDate, Activity: event.Name, Position: role.Name, Hours: 2},
			{Date: date, Activity: team.Name, Position: role.Name, Hours: 3},
		}
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, wantEntries),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/user/get-recent-records-of-user", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_createRequest(t *testing.T) {
	usr := createTestUser(t, "request@test.cd", user.ScopeVolunteer)

	tests := []httpTest{
		{
			name: "vague purpose and short content",
			body: marchallObj(t, record.NewRequest{
				Date: time.Now(), Purpose: "stuff", Content: "please",
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{
				"purpose": "Please describe the purpose of this request in more detail (at least 10 characters)",
				"content": "content must be at least 20 characters in length"
			}`),
		},
		{
			name: "ok",
			body: marchallObj(t, record.NewRequest{
				Date:    time.Now(),
				Purpose: "Equipment funding",
				Content: "We need two more first aid kits for the spring events.",
			}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Created request!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/user/create-request", getToken(t, usr), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userTeams(t *testing.T) {
	usr := createTestUser(t, "teams@test.cd", user.ScopeVolunteer)
	team := createTestTeam(t, "Yellow Jackets", 0)
	role := createTestRole(t, "Member")

	t.Run("no teams", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"0": "No available teams"}`),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/user/get-teams-of-user", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	if err := orgRepo.AddTeamMember(context.Background(), org.TeamMembership{UserID: usr.ID, TeamID: team.ID, RoleID: role.ID}); err != nil {
		t.Fatalf("AddTeamMember() failed: %v", err)
	}

	t.Run("one team", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(fmt.Sprintf(`{"0": "Select a team", "%d": "Yellow Jackets"}`, team.ID)),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/user/get-teams-of-user", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
