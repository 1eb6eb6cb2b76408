// Package service is the HTTP client for the privileged local service
// that establishes and tears down tunnels. The core hands profiles to
// this package through the profile.Connector contract; failures are
// logged and surfaced on the event bus, never returned to the connect
// caller.
package service

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/vpnetscape/client/common"
	"github.com/vpnetscape/client/event"
	"github.com/vpnetscape/client/profile"
)

// Client talks to the privileged service over its local control API,
// authenticating every request with the shared auth key the service
// writes at install time.
type Client struct {
	http *resty.Client
	key  string
}

type profileData struct {
	ID        string `json:"id"`
	Data      string `json:"data"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	AuthToken string `json:"auth_token"`
	Timeout   bool   `json:"timeout"`
}

type profileStop struct {
	ID string `json:"id"`
}

type statusData struct {
	Status bool `json:"status"`
}

// New creates a service client, loading the auth key from the platform
// auth file. A missing key is logged and requests proceed without one;
// the service will reject them until it is installed.
func New() *Client {
	key, err := os.ReadFile(authKeyPath())
	if err != nil {
		common.LogWarn("service: Failed to read service auth key (%s)", err)
	}

	return &Client{
		http: resty.New().
			SetBaseURL(common.ServiceAddress).
			SetTimeout(common.ServiceTimeout).
			SetHeader("User-Agent", common.AppName),
		key: strings.TrimSpace(string(key)),
	}
}

func authKeyPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join("C:\\", "ProgramData", "vpnetscape", "auth")
	}
	return filepath.Join(string(os.PathSeparator), "var", "run", "vpnetscape.auth")
}

// Start hands a connection attempt to the service. The profile's full
// configuration text, with any stored key material re-appended, is
// posted together with the collected credentials. Errors are logged
// and published; the caller is never failed directly.
func (c *Client) Start(prfl *profile.Profile, timeout bool,
	authToken, username, password string) {

	prfl.FullData(func(data string) {
		resp, err := c.http.R().
			SetHeader("Auth-Key", c.key).
			SetBody(profileData{
				ID:        prfl.ID,
				Data:      data,
				Username:  username,
				Password:  password,
				AuthToken: authToken,
				Timeout:   timeout,
			}).
			Post("/profile")

		if err != nil {
			evtType := event.TypeAuthError
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				evtType = event.TypeTimeoutError
			}

			common.LogErr(common.Wrapf(common.ErrAuth,
				"service: Failed to start profile (%s)", err))
			evt := &event.Event{
				Type: evtType,
				Data: prfl.ID,
			}
			evt.Publish()
			return
		}

		if resp.StatusCode() != 200 {
			common.LogErr(common.Wrapf(common.ErrAuth,
				"service: Failed to start profile (%d)", resp.StatusCode()))
			evt := &event.Event{
				Type: event.TypeAuthError,
				Data: prfl.ID,
			}
			evt.Publish()
		}
	})
}

// Stop asks the service to tear down the profile's tunnel. Stopping a
// profile that is not running is not an error.
func (c *Client) Stop(prfl *profile.Profile) {
	resp, err := c.http.R().
		SetHeader("Auth-Key", c.key).
		SetBody(profileStop{ID: prfl.ID}).
		Delete("/profile")

	if err != nil {
		common.LogWarn("service: Failed to stop profile (%s)", err)
		return
	}
	if resp.StatusCode() != 200 {
		common.LogWarn("service: Failed to stop profile (%d)", resp.StatusCode())
	}
}

// Status reports whether the service has any connected profile.
func (c *Client) Status() (bool, error) {
	var data statusData

	resp, err := c.http.R().
		SetHeader("Auth-Key", c.key).
		SetResult(&data).
		Get("/status")
	if err != nil {
		return false, common.Wrapf(common.ErrRead,
			"service: Failed to get service status (%s)", err)
	}
	if resp.StatusCode() != 200 {
		return false, common.Wrapf(common.ErrRead,
			"service: Bad service status response (%d)", resp.StatusCode())
	}

	return data.Status, nil
}

// Ping reports whether the privileged service is reachable.
func (c *Client) Ping() bool {
	resp, err := c.http.R().
		SetHeader("Auth-Key", c.key).
		Get("/ping")
	return err == nil && resp.StatusCode() == 200
}
