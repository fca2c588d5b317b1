package tests

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/notification"
)

var testStart = time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)

func Test_notificationApi_retrieveSettings(t *testing.T) {
	app := setup(t, testStart)
	token := getToken(t, "usr1", "usr1@test.cd")

	tests := []httpTest{
		{
			name:     "Auth required",
			method:   http.MethodGet,
			path:     "/v1/notifications/settings",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "No saved row returns the defaults",
			method:   http.MethodGet,
			path:     "/v1/notifications/settings",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, notification.DefaultSettings("usr1")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_notificationApi_updateSettings(t *testing.T) {
	app := setup(t, testStart)
	token := getToken(t, "usr1", "usr1@test.cd")

	valid := notification.Settings{
		Enabled:        true,
		MorningTime:    "07:30",
		EveningTime:    "21:00",
		MorningMessage: "rise and grind",
		EveningMessage: "wind down",
	}
	badTime := valid
	badTime.MorningTime = "25:00"

	tests := []httpTest{
		{
			name:     "Auth required",
			method:   http.MethodPut,
			path:     "/v1/notifications/settings",
			body:     marchallObj(t, valid),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "Malformed morning time is rejected",
			method:   http.MethodPut,
			path:     "/v1/notifications/settings",
			body:     marchallObj(t, badTime),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"morningTime": "must be a 24-hour time in HH:MM format"}),
		},
		{
			name:     "Valid settings are saved",
			method:   http.MethodPut,
			path:     "/v1/notifications/settings",
			body:     marchallObj(t, valid),
			token:    token,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	saved, err := app.settingsSvc.GetByUserID(context.Background(), "usr1")
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	if saved.MorningTime != valid.MorningTime || !saved.Enabled {
		t.Errorf("settings not persisted: %+v", saved)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on save")
	}
}

func Test_notificationApi_updateSettings_changedPort(t *testing.T) {
	app := setup(t, testStart)
	token := getToken(t, "usr1", "usr1@test.cd")

	var got []notification.Settings
	app.settingsSvc.OnChanged(func(s notification.Settings) { got = append(got, s) })

	body := marchallObj(t, notification.Settings{
		Enabled:        true,
		MorningTime:    "08:00",
		EveningTime:    "22:00",
		MorningMessage: "up",
		EveningMessage: "down",
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/notifications/settings", token, body)
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
	if len(got) != 1 {
		t.Fatalf("changed port fired %d times; want 1", len(got))
	}
	if got[0].UserID != "usr1" {
		t.Errorf("changed port got UserID %q; want %q", got[0].UserID, "usr1")
	}
}

func Test_notificationApi_click(t *testing.T) {
	app := setup(t, testStart)
	base := core.Conf.FrontendBaseURL

	path := func(tag, action string) string {
		v := make(url.Values)
		v.Add("tag", tag)
		if action != "" {
			v.Add("action", action)
		}
		return "/v1/notifications/click?" + v.Encode()
	}

	tests := []struct {
		name         string
		path         string
		wantLocation string
	}{
		{"Body click opens the task", path("task-abc123", ""), base + "/calendar?task=abc123"},
		{"Complete action carries through", path("task-abc123", "complete"), base + "/calendar?task=abc123&action=complete"},
		{"Reschedule action carries through", path("task-abc123", "reschedule"), base + "/calendar?task=abc123&action=reschedule"},
		{"Unknown action is dropped", path("task-abc123", "snooze"), base + "/calendar?task=abc123"},
		{"Foreign tag falls back to the calendar", path("daily-morning", ""), base + "/calendar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusFound {
				t.Fatalf("failed! code = %v; want %v", rec.Code, http.StatusFound)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q; want %q", loc, tt.wantLocation)
			}
		})
	}
}
