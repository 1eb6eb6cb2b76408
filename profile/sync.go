package profile

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/vpnetscape/client/common"
)

var syncClient = resty.New().SetTimeout(common.SyncTimeout)

// syncBundle is the signed configuration payload fetched from a sync
// host. Both fields must be present for the bundle to be considered.
type syncBundle struct {
	Signature string `json:"signature"`
	Conf      string `json:"conf"`
}

// syncConf is the metadata object recovered from the comment block
// embedded in a synced configuration. Pointer fields distinguish an
// absent field from a present falsy one: password_mode, token,
// token_ttl, sync_hosts and sync_hash replace the profile's value even
// when falsy, while identity fields only apply when non-empty.
type syncConf struct {
	Name           *string   `json:"name"`
	OrganizationID *string   `json:"organization_id"`
	Organization   *string   `json:"organization"`
	ServerID       *string   `json:"server_id"`
	Server         *string   `json:"server"`
	UserID         *string   `json:"user_id"`
	User           *string   `json:"user"`
	PasswordMode   *string   `json:"password_mode"`
	Token          *string   `json:"token"`
	TokenTTL       *int64    `json:"token_ttl"`
	Autostart      *bool     `json:"autostart"`
	SyncHosts      *[]string `json:"sync_hosts"`
	SyncHash       *string   `json:"sync_hash"`
}

// upsert merges newly synced metadata onto the profile. Fields absent
// from the payload are left untouched.
func (p *Profile) upsert(conf syncConf) {
	if conf.Name != nil && *conf.Name != "" {
		p.Name = *conf.Name
	}
	if conf.OrganizationID != nil && *conf.OrganizationID != "" {
		p.OrganizationID = *conf.OrganizationID
	}
	if conf.Organization != nil && *conf.Organization != "" {
		p.Organization = *conf.Organization
	}
	if conf.ServerID != nil && *conf.ServerID != "" {
		p.ServerID = *conf.ServerID
	}
	if conf.Server != nil && *conf.Server != "" {
		p.Server = *conf.Server
	}
	if conf.UserID != nil && *conf.UserID != "" {
		p.UserID = *conf.UserID
	}
	if conf.User != nil && *conf.User != "" {
		p.User = *conf.User
	}

	if conf.PasswordMode != nil {
		p.PasswordMode = *conf.PasswordMode
	}
	if conf.Token != nil {
		p.Token = *conf.Token
	}
	if conf.TokenTTL != nil {
		p.TokenTTL = *conf.TokenTTL
	}
	if conf.Autostart != nil && *conf.Autostart {
		p.Autostart = true
	}
	if conf.SyncHosts != nil {
		p.SyncHosts = *conf.SyncHosts
	}
	if conf.SyncHash != nil {
		p.SyncHash = *conf.SyncHash
	}
}

// authRequest issues a request to a sync host signed with the
// profile's sync credentials: an HMAC-SHA512 over the token, a
// timestamp, a nonce, the method and the path, carried in auth
// headers.
func authRequest(method, host, pth, token, secret string) (*resty.Response, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")

	authString := strings.Join([]string{
		token,
		timestamp,
		nonce,
		strings.ToUpper(method),
		pth,
	}, "&")

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(authString))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return syncClient.R().
		SetHeader("Auth-Token", token).
		SetHeader("Auth-Timestamp", timestamp).
		SetHeader("Auth-Nonce", nonce).
		SetHeader("Auth-Signature", signature).
		Execute(strings.ToUpper(method), host+pth)
}

// Sync pulls a signed configuration bundle from the highest-priority
// reachable sync host and merges it into the profile. Hosts are tried
// strictly in order, one request in flight at a time; a malformed or
// badly signed bundle completes without trying further hosts, while
// transport errors and unknown statuses fall through to the next host.
// The callback fires exactly once however the attempt ends.
func (p *Profile) Sync(hosts []string, callback func()) {
	pth := fmt.Sprintf("/key/sync/%s/%s/%s/%s",
		p.OrganizationID,
		p.UserID,
		p.ServerID,
		p.SyncHash,
	)

	if len(hosts) == 0 {
		if callback != nil {
			callback()
		}
		return
	}
	host := hosts[0]
	hosts = hosts[1:]

	resp, err := authRequest("get", host, pth, p.SyncToken, p.SyncSecret)

	var body []byte
	if resp != nil {
		body = resp.Body()
	}

	var bundle syncBundle
	if jerr := json.Unmarshal(body, &bundle); jerr != nil {
		if callback != nil {
			callback()
		}
		return
	}

	if bundle.Signature == "" || bundle.Conf == "" {
		if callback != nil {
			callback()
		}
		return
	}

	mac := hmac.New(sha512.New, []byte(p.SyncSecret))
	mac.Write([]byte(bundle.Conf))
	confSignature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(confSignature), []byte(bundle.Signature)) {
		if callback != nil {
			callback()
		}
		return
	}

	if err != nil {
		if len(hosts) == 0 {
			if resp != nil {
				common.LogWarn("profile: Failed to sync config (%d)",
					resp.StatusCode())
			} else {
				common.LogWarn("profile: Failed to sync config")
			}
		} else {
			p.Sync(hosts, callback)
			return
		}
	} else {
		switch {
		case resp.StatusCode() == 480:
			common.LogInfo("profile: Failed to sync conf, no subscription")
		case resp.StatusCode() == 404:
			common.LogWarn("profile: Failed to sync conf, user not found")
		case resp.StatusCode() == 401:
			common.LogWarn("profile: Failed to sync conf, authentication error")
		case resp.StatusCode() == 200 && len(body) != 0:
			p.UpdateSync(bundle.Conf)
		case resp.StatusCode() != 200:
			common.LogWarn("profile: Failed to sync conf, unknown error (%d)",
				resp.StatusCode())
			p.Sync(hosts, callback)
			return
		}
	}

	if callback != nil {
		callback()
	}
}

// UpdateSync rebuilds the profile's configuration from a freshly
// synced body. The comment metadata block is recovered and upserted,
// local device identity directives are preserved, and locally-held key
// material is always carried forward untouched behind the new
// connection parameters.
func (p *Profile) UpdateSync(conf string) {
	var uvID, uvName string
	for _, line := range strings.Split(p.Data, "\n") {
		if strings.HasPrefix(line, "setenv UV_ID ") {
			uvID = line
		} else if strings.HasPrefix(line, "setenv UV_NAME ") {
			uvName = line
		}
	}

	// The embedded metadata block is delimited by whole lines "#{" and
	// "#}", every line between them comment-prefixed. Stripping the
	// leading "#" from each line, delimiters included, recovers the
	// JSON object. Those lines are excluded from the rebuilt body.
	jsonData := ""
	jsonFound := false
	jsonOpen := false
	data := ""

	for _, line := range strings.Split(conf, "\n") {
		if !jsonFound && line == "#{" {
			jsonFound = true
			jsonOpen = true
		}

		if jsonOpen && strings.HasPrefix(line, "#") {
			if line == "#}" {
				jsonOpen = false
			}
			jsonData += strings.Replace(line, "#", "", 1)
		} else {
			if strings.HasPrefix(line, "setenv UV_ID ") {
				line = uvID
			} else if strings.HasPrefix(line, "setenv UV_NAME ") {
				line = uvName
			}

			data += line + "\n"
		}
	}

	var confData syncConf
	if err := json.Unmarshal([]byte(jsonData), &confData); err == nil {
		p.upsert(confData)
		p.SaveConf(nil)
	}

	tlsAuth := ""
	if strings.Contains(p.Data, "key-direction") &&
		!strings.Contains(data, "key-direction") {
		tlsAuth += "key-direction 1\n"
	}

	if block := ExtractBlock(p.Data, "<tls-auth>", "</tls-auth>"); block != "" {
		tlsAuth += block + "\n"
	}

	cert := ""
	if block := ExtractBlock(p.Data, "<cert>", "</cert>"); block != "" {
		cert = block + "\n"
	}

	key := ""
	if block := ExtractBlock(p.Data, "<key>", "</key>"); block != "" {
		key = block + "\n"
	}

	p.Data = data + tlsAuth + cert + key
	p.SaveData(nil)
}
