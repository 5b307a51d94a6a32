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

func Test_createRegion(t *testing.T) {
	admin := createTestUser(t, "admin-region@test.cd", user.ScopeAdmin)
	vol := createTestUser(t, "vol-region@test.cd", user.ScopeVolunteer)
	createTestRegion(t, "Pacific Northwest", "PNW")

	tests := []httpTest{
		{
			name:     "no token",
			body:     []byte(`{"country": "USA", "name": "Mountain West", "abbreviation": "MW"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errNotLoggedInBody,
		},
		{
			name:     "missing scope",
			body:     []byte(`{"country": "USA", "name": "Mountain West", "abbreviation": "MW"}`),
			token:    getToken(t, vol),
			wantCode: http.StatusForbidden,
			wantData: errForbiddenBody,
		},
		{
			name:     "short name and long abbreviation",
			body:     []byte(`{"country": "USA", "name": "West", "abbreviation": "WESTWEST"}`),
			token:    getToken(t, admin),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{
				"name": "name must be at least 8 characters in length",
				"abbreviation": "abbreviation must be a maximum of 7 characters in length"
			}`),
		},
		{
			name:     "duplicate name",
			body:     []byte(`{"country": "USA", "name": "Pacific Northwest", "abbreviation": "PNW2"}`),
			token:    getToken(t, admin),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "There is already a region with this name"}`),
		},
		{
			name:     "ok",
			body:     []byte(`{"country": "USA", "name": "Mountain West", "abbreviation": "MW"}`),
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Created region!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-region", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusForbidden {
				want := `Bearer scope="admin"`
				if got := rec.Header().Get("WWW-Authenticate"); got != want {
					t.Errorf("WWW-Authenticate = %q; want %q", got, want)
				}
			}
		})
	}
}

func Test_createProgram(t *testing.T) {
	admin := createTestUser(t, "admin-program@test.cd", user.ScopeAdmin)
	region := createTestRegion(t, "Program Region One", "PRO")

	tests := []httpTest{
		{
			name:     "region does not exist",
			body:     []byte(`{"name": "Chess", "region_id": 999}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"region_id": "This region does not exist"}`),
		},
		{
			name:     "ok",
			body:     []byte(fmt.Sprintf(`{"name": "Chess", "region_id": %d}`, region.ID)),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Created program!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-program", getToken(t, admin), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_createSchool(t *testing.T) {
	admin := createTestUser(t, "admin-school@test.cd", user.ScopeAdmin)
	region := createTestRegion(t, "School Region One", "SRO")
	createTestSchool(t, "Lincoln High", "LHS", region.ID)

	tests := []httpTest{
		{
			name:     "duplicate abbreviation",
			body:     []byte(fmt.Sprintf(`{"name": "Lakeside High", "abbreviation": "LHS", "region_id": %d}`, region.ID)),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "School with this name or abbreviation already exists"}`),
		},
		{
			name:     "ok",
			body:     []byte(fmt.Sprintf(`{"name": "Garfield High", "abbreviation": "GHS", "region_id": %d}`, region.ID)),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Created school!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-school", getToken(t, admin), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_logPayment(t *testing.T) {
	admin := createTestUser(t, "admin-payment@test.cd", user.ScopeAdmin)
	vol := createTestUser(t, "vol-payment@test.cd", user.ScopeVolunteer)

	tests := []httpTest{
		{
			name: "amount too large",
			body: marchallObj(t, record.NewPayment{
				Date:    time.Now(),
				Amount:  10001,
				Purpose: "Travel reimbursement",
				UserID:  vol.ID,
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"amount": "Please double check the amount"}`),
		},
		{
			name: "user does not exist",
			body: marchallObj(t, record.NewPayment{
				Date:    time.Now(),
				Amount:  50,
				Purpose: "Travel reimbursement",
				UserID:  99999,
			}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"user_id": "This user does not exist"}`),
		},
		{
			name: "ok",
			body: marchallObj(t, record.NewPayment{
				Date:    time.Now(),
				Amount:  50,
				Purpose: "Travel reimbursement",
				UserID:  vol.ID,
			}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantData == nil {
				tt.wantData = successBody(t, "Logged payment!")
			}
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/log-payment", getToken(t, admin), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_permissions(t *testing.T) {
	admin := createTestUser(t, "admin-perms@test.cd", user.ScopeAdmin)
	vol := createTestUser(t, "vol-perms@test.cd")

	t.Run("create permission", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"name": "reviewer"}`),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Created permission!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-permission", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create duplicate permission", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"name": "reviewer"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"name": "There is already a permission with this name"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-permission", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grant unknown permission to unknown user", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"user_id": 99999, "permission_name": "ghost"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{
				"permission_name": "This permission does not exist",
				"user_id": "This user does not exist"
			}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-permission-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grant permission", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, user.UserPermission{UserID: vol.ID, PermissionName: "reviewer"}),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Added permission to user!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-permission-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grant permission twice", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, user.UserPermission{UserID: vol.ID, PermissionName: "reviewer"}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "This user already has this permission"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-permission-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_traits(t *testing.T) {
	admin := createTestUser(t, "admin-traits@test.cd", user.ScopeAdmin)
	vol := createTestUser(t, "vol-traits@test.cd")

	t.Run("create trait name too short", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"name": "x"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"name": "name must be at least 2 characters in length"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-trait", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create trait", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"name": "Punctual"}`),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Created trait!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/create-trait", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	trait, err := orgRepo.CreateTrait(context.Background(), org.Trait{Name: "Dependable"})
	if err != nil {
		t.Fatalf("CreateTrait() failed, %v", err)
	}

	t.Run("add unknown trait to unknown user", func(t *testing.T) {
		tt := httpTest{
			body:     []byte(`{"user_id": 99999, "trait_id": 99999}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{
				"trait_id": "This trait does not exist",
				"user_id": "This user does not exist"
			}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-trait-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("add trait to user", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, org.UserTraitAssociation{UserID: vol.ID, TraitID: trait.ID}),
			wantCode: http.StatusOK,
			wantData: successBody(t, "Added trait to user!"),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-trait-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("add trait to user twice", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, org.UserTraitAssociation{UserID: vol.ID, TraitID: trait.ID}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"all": "This user already has this trait"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/add-trait-to-user", getToken(t, admin), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
