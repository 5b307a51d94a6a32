package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/dmecc/volunteerhub/core"
	"github.com/dmecc/volunteerhub/core/activity"
	"github.com/dmecc/volunteerhub/core/org"
	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
	"github.com/dmecc/volunteerhub/fs"
	emailsvc "github.com/dmecc/volunteerhub/services/email"
	logsvc "github.com/dmecc/volunteerhub/services/logger"
	"github.com/dmecc/volunteerhub/storage/database/inmem"
)

var (
	conf *core.Config
	app  Server

	usrRepo user.Repository
	orgRepo org.Repository
	actRepo activity.Repository
	recRepo record.Repository

	errNotLoggedInBody = []byte(`{"detail": "You are not logged in"}`)
	errForbiddenBody   = []byte(`{"detail": "You do not have permission to access this page"}`)
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "VolunteerHub",
		SecretKey:        []byte("test-secret-key"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: "noreply@test.local",

		PasswordResetTimeoutDelta: time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
		},
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	// set up DB & repos
	db := inmem.Open()
	usrRepo = inmem.NewUserRepository(db)
	orgRepo = inmem.NewOrgRepository(db)
	actRepo = inmem.NewActivityRepository(db)
	recRepo = inmem.NewRecordRepository(db)

	// set up services
	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	record.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(usrRepo, orgRepo, mailSvc, conf, validate, translator)
	orgSvc := org.NewService(orgRepo, validate, translator)
	actSvc := activity.NewService(actRepo, validate, translator)
	recSvc := record.NewService(recRepo, validate, translator)

	// set up server
	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        usrSvc,
		OrgSvc:         orgSvc,
		ActivitySvc:    actSvc,
		RecordSvc:      recSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func successBody(t *testing.T, detail string) []byte {
	t.Helper()
	return marchallObj(t, successResponse{Status: "success", Detail: detail})
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// ---------------------------------------------------------------------------
// fixtures

func createTestUser(t *testing.T, email string, scopes ...string) user.User {
	t.Helper()
	ctx := context.Background()

	usr := user.User{Email: email, FirstName: "Test", LastName: "User"}
	if err := usr.SetPassword("LeTest!Pwd"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := usrRepo.CreateUser(ctx, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	for _, scope := range scopes {
		if _, err := usrRepo.CreatePermission(ctx, user.Permission{Name: scope}); err != nil && err != user.ErrPermissionExists {
			t.Fatalf("CreatePermission() failed: %v", err)
		}
		if err := usrRepo.LinkUserPermission(ctx, user.UserPermission{UserID: usr.ID, PermissionName: scope}); err != nil {
			t.Fatalf("LinkUserPermission() failed: %v", err)
		}
	}
	usr, err = usrRepo.GetUserByID(ctx, usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	return usr
}

func createTestRegion(t *testing.T, name, abbr string) org.Region {
	t.Helper()

	r, err := orgRepo.CreateRegion(context.Background(), org.Region{Country: "USA", Name: name, Abbreviation: abbr})
	if err != nil {
		t.Fatalf("CreateRegion() failed: %v", err)
	}
	return r
}

func createTestSchool(t *testing.T, name, abbr string, regionID int) org.School {
	t.Helper()

	s, err := orgRepo.CreateSchool(context.Background(), org.School{Abbreviation: abbr, Name: name, RegionID: regionID})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return s
}

func createTestTeam(t *testing.T, name string, programID int) org.Team {
	t.Helper()

	tm, err := orgRepo.CreateTeam(context.Background(), org.Team{Name: name, ProgramID: programID})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	return tm
}

func createTestEvent(t *testing.T, name string, date time.Time) activity.Event {
	t.Helper()

	evt, err := actRepo.CreateEvent(context.Background(), activity.Event{Name: name, Date: date})
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return evt
}

func createTestRole(t *testing.T, name string) activity.Role {
	t.Helper()

	r, err := actRepo.CreateRole(context.Background(), activity.Role{Name: name})
	if err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}
	return r
}
