package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/studiumapp/backend/apps/api/echo"
	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/notification"
	"github.com/studiumapp/backend/core/task"
	emailsvc "github.com/studiumapp/backend/services/email"
	dummydb "github.com/studiumapp/backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func init() {
	core.Conf.Debug = false
	core.Conf.TestMode = true
}

type testApp struct {
	server      Server
	clock       *clock.EventTimeSource
	taskRepo    *dummydb.TaskRepository
	taskSvc     *task.Service
	settingsSvc *notification.Service
}

func setup(t *testing.T, now time.Time) *testApp {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	ts := clock.NewEventTimeSource()
	ts.Update(now)

	taskRepo := dummydb.NewTaskRepository(db)
	logger := core.NewStdLogger(testStdLogger())
	logger.Enable(false)

	taskSvc := task.NewService(taskRepo, ts, logger, core.Conf.Notification)
	settingsSvc := notification.NewService(dummydb.NewSettingsRepository(db), ts)

	validate, translator := core.NewValidator()

	app := NewServer(ServerDeps{
		Logger:          logger,
		TaskSvc:         taskSvc,
		NotificationSvc: settingsSvc,
		MailSvc:         emailsvc.NewConsoleServiceMock(),
		Validate:        validate,
		Translator:      translator,
		DisableReqLogs:  true,
	})
	return &testApp{
		server:      app,
		clock:       ts,
		taskRepo:    taskRepo,
		taskSvc:     taskSvc,
		settingsSvc: settingsSvc,
	}
}

func testStdLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
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

func getToken(t *testing.T, userID, email string) string {
	token, err := GenerateToken(GetUserClaims(userID, email))
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
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
