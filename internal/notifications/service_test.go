package notifications_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aircheck/internal/config"
	"aircheck/internal/notifications"
)

func TestNewServiceReturnsNoopWhenCredentialsMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.PushoverToken = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRecordingStarted(context.Background(), "jazzfm", time.Hour); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestPushoverServiceSendsFormPayload(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.PushoverToken = "app-token"
	cfg.Notifications.PushoverUser = "user-key"
	svc := notifications.NewService(&cfg, notifications.WithEndpoint(server.URL))

	err := svc.NotifyRecordingCompleted(context.Background(), "jazzfm", "JazzFM260829-Sat.mp3", 3, 50*1024*1024)
	if err != nil {
		t.Fatal(err)
	}

	if got := form["token"]; len(got) != 1 || got[0] != "app-token" {
		t.Fatalf("token not sent: %v", form)
	}
	if got := form["user"]; len(got) != 1 || got[0] != "user-key" {
		t.Fatalf("user not sent: %v", form)
	}
	if got := form["title"]; len(got) != 1 || got[0] != "Aircheck - Recording Complete" {
		t.Fatalf("unexpected title: %v", form)
	}
	if len(form["message"]) != 1 {
		t.Fatalf("message missing: %v", form)
	}
}

func TestPushoverServiceErrorCarriesPriority(t *testing.T) {
	var priority string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		priority = r.PostFormValue("priority")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.PushoverToken = "app-token"
	cfg.Notifications.PushoverUser = "user-key"
	svc := notifications.NewService(&cfg, notifications.WithEndpoint(server.URL))

	if err := svc.NotifyError(context.Background(), errors.New("stream unreachable"), "jazzfm"); err != nil {
		t.Fatal(err)
	}
	if priority != "1" {
		t.Fatalf("error notifications must be high priority, got %q", priority)
	}
}

func TestPushoverServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status":0,"errors":["application token is invalid"]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.PushoverToken = "bad-token"
	cfg.Notifications.PushoverUser = "user-key"
	svc := notifications.NewService(&cfg, notifications.WithEndpoint(server.URL))

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
