package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vpnetscape/client/event"
	"github.com/vpnetscape/client/profile"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		http: resty.New().SetBaseURL(srv.URL),
		key:  "test-key",
	}
}

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	p := profile.New(filepath.Join(t.TempDir(), "prfl1"), nil)
	p.Data = "client\nremote host 1194\n"
	return p
}

func TestStart(t *testing.T) {
	var got profileData
	var authKey string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			authKey = r.Header.Get("Auth-Key")
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &got)
		}))
	defer srv.Close()

	prfl := testProfile(t)
	testClient(srv).Start(prfl, true, "auth-tok", "user0", "secret")

	if authKey != "test-key" {
		t.Errorf("Auth-Key = %q, want test-key", authKey)
	}
	if got.ID != "prfl1" || got.Data == "" {
		t.Errorf("posted id/data = %q/%q", got.ID, got.Data)
	}
	if got.Username != "user0" || got.Password != "secret" {
		t.Errorf("credentials = %q/%q", got.Username, got.Password)
	}
	if got.AuthToken != "auth-tok" || !got.Timeout {
		t.Errorf("token/timeout = %q/%v", got.AuthToken, got.Timeout)
	}
}

func TestStartRejectedPublishesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(401)
		}))
	defer srv.Close()

	list := event.NewListener()
	defer list.Close()

	prfl := testProfile(t)
	testClient(srv).Start(prfl, false, "", "", "")

	select {
	case evt := <-list.Listen():
		if evt.Type != event.TypeAuthError {
			t.Errorf("Type = %q, want %q", evt.Type, event.TypeAuthError)
		}
		if evt.Data != "prfl1" {
			t.Errorf("Data = %v, want prfl1", evt.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestStartUnreachablePublishesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	list := event.NewListener()
	defer list.Close()

	prfl := testProfile(t)
	testClient(srv).Start(prfl, false, "", "", "")

	select {
	case evt := <-list.Listen():
		if evt.Type != event.TypeAuthError && evt.Type != event.TypeTimeoutError {
			t.Errorf("Type = %q, want an error event", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestStop(t *testing.T) {
	var method string
	var got profileStop

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &got)
		}))
	defer srv.Close()

	prfl := testProfile(t)
	testClient(srv).Stop(prfl)

	if method != "DELETE" {
		t.Errorf("method = %q, want DELETE", method)
	}
	if got.ID != "prfl1" {
		t.Errorf("stopped id = %q, want prfl1", got.ID)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
		ok     bool
	}{
		{"connected", 200, `{"status": true}`, true, true},
		{"idle", 200, `{"status": false}`, false, true},
		{"unauthorized", 401, ``, false, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(test.status)
					w.Write([]byte(test.body))
				}))
			defer srv.Close()

			got, err := testClient(srv).Status()
			if test.ok && err != nil {
				t.Fatalf("Status() err = %v", err)
			}
			if !test.ok && err == nil {
				t.Fatal("Status() expected error")
			}
			if got != test.want {
				t.Errorf("Status() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if !testClient(srv).Ping() {
		t.Error("Ping() = false against a live service")
	}

	srv.Close()
	if testClient(srv).Ping() {
		t.Error("Ping() = true against a dead service")
	}
}
