package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/accredhub/abet/apps/api/echo"
	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
	"github.com/accredhub/abet/core/compliance"
	"github.com/accredhub/abet/core/user"
	dummydb "github.com/accredhub/abet/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

type testApp struct {
	server Server

	usrRepo    user.Repository
	usrSvc     *user.Service
	catSvc     *catalog.Service
	assessSvc  *assessment.Service
	compSvc    *compliance.Service
	calculator *compliance.Calculator
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		AppName:      "AccredHub",
		TestMode:     true,
		SecretKey:    "secret",
		AcademicYear: "2024-2025",
		Semester:     "Fall 2024",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	catRepo := dummydb.NewCatalogRepository(db)
	assessRepo := dummydb.NewAssessmentRepository(db)
	compRepo := dummydb.NewComplianceRepository(db)

	logger := testLogger{}
	usrSvc := user.NewService(usrRepo, logger)
	catSvc := catalog.NewService(catRepo, logger)
	engine := assessment.NewEngine(assessRepo, catRepo, logger)
	assessSvc := assessment.NewService(assessRepo, catRepo, assessRepo, engine, logger)
	compSvc := compliance.NewService(compRepo, conf, logger)
	calc := compliance.NewCalculator(compRepo, catRepo, engine, nil, conf, logger)

	server := NewServer(&ServerDeps{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		UserSvc:        usrSvc,
		CatalogSvc:     catSvc,
		AssessmentSvc:  assessSvc,
		ComplianceSvc:  compSvc,
		Calculator:     calc,
	})

	return &testApp{
		server:     server,
		usrRepo:    usrRepo,
		usrSvc:     usrSvc,
		catSvc:     catSvc,
		assessSvc:  assessSvc,
		compSvc:    compSvc,
		calculator: calc,
	}
}

func createUser(t *testing.T, app *testApp, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := app.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
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
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
