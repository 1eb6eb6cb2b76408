package profile

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/vpnetscape/client/common"
	"github.com/vpnetscape/client/event"
	"github.com/vpnetscape/client/keyring"
)

// keyringAvailable is swappable so tests can pin the secret store on
// or off.
var keyringAvailable = keyring.Available

// Connection status values. A freshly loaded profile is always
// disconnected; persisted status is never trusted across restarts.
const (
	StatusDisconnected  = "disconnected"
	StatusConnecting    = "connecting"
	StatusConnected     = "connected"
	StatusReconnecting  = "reconnecting"
	StatusDisconnecting = "disconnecting"
)

// Connector is the contract to the privileged service that establishes
// and tears down tunnels. The core only decides when and with what
// arguments to call it.
type Connector interface {
	Start(p *Profile, timeout bool, authToken, username, password string)
	Stop(p *Profile)
}

// AuthCallback is invoked when a connection attempt needs interactive
// credentials. An empty authType means none are required. Calling
// submit hands the collected username and password to the service.
type AuthCallback func(authType string, submit func(username, password string))

// Profile is a named VPN connection configuration plus its runtime and
// sync state. Fields are mutated by loads, sync merges, token rotation
// and shell edits, all funneled through the explicit save operations.
type Profile struct {
	ID       string
	Path     string
	ConfPath string
	OvpnPath string
	LogPath  string

	Data   string
	Name   string
	UVName string

	OrganizationID string
	Organization   string
	ServerID       string
	Server         string
	UserID         string
	User           string
	PasswordMode   string
	Token          string
	TokenTTL       int64
	AuthToken      string
	AuthTokenTime  int64
	Autostart      bool

	SyncHosts  []string
	SyncHash   string
	SyncSecret string
	SyncToken  string

	Status     string
	Timestamp  int64
	ServerAddr string
	ClientAddr string

	Log string

	// OnUpdate fires after a status or metadata change, OnOutput after
	// each appended log line. Both are optional display hooks.
	OnUpdate func()
	OnOutput func(output string)

	svc Connector
}

// Conf is the persisted structured metadata record. Readers tolerate
// any field being absent.
type Conf struct {
	Name           string   `json:"name"`
	OrganizationID string   `json:"organization_id"`
	Organization   string   `json:"organization"`
	ServerID       string   `json:"server_id"`
	Server         string   `json:"server"`
	UserID         string   `json:"user_id"`
	User           string   `json:"user"`
	PasswordMode   string   `json:"password_mode"`
	Token          string   `json:"token"`
	TokenTTL       int64    `json:"token_ttl"`
	AuthToken      string   `json:"auth_token"`
	AuthTokenTime  int64    `json:"auth_token_time"`
	Autostart      bool     `json:"autostart"`
	SyncHosts      []string `json:"sync_hosts"`
	SyncHash       string   `json:"sync_hash"`
	SyncSecret     string   `json:"sync_secret"`
	SyncToken      string   `json:"sync_token"`
}

// StatusUpdate carries an externally observed connection state change
// fed back into the profile by the shell's event feed.
type StatusUpdate struct {
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
	ServerAddr string `json:"server_addr"`
	ClientAddr string `json:"client_addr"`
}

// OutputData is the payload of an output event on the bus.
type OutputData struct {
	ID     string `json:"id"`
	Output string `json:"output"`
}

// New creates a profile rooted at pth, the record path without
// extension. The profile id is the base name of pth and never changes.
func New(pth string, svc Connector) *Profile {
	return &Profile{
		ID:       filepath.Base(pth),
		Path:     pth,
		ConfPath: pth + ".conf",
		OvpnPath: pth + ".ovpn",
		LogPath:  pth + ".log",
		Status:   StatusDisconnected,
		svc:      svc,
	}
}

// Load reads the three persisted records concurrently and reconstructs
// the profile state. With waitAll the callback fires only once all
// three records are processed; otherwise it fires as soon as the
// metadata record is available and the barrier is left unarmed.
func (p *Profile) Load(callback func(), waitAll bool) {
	waiter := common.NewWaiter(3, func() {
		if callback != nil {
			callback()
		}
	})

	go func() {
		data, err := os.ReadFile(p.ConfPath)

		conf := Conf{}
		if err == nil {
			if perr := json.Unmarshal(data, &conf); perr != nil {
				common.LogErr(common.Wrapf(common.ErrParse,
					"profile: Failed to parse config (%s)", perr))
				conf = Conf{}
			}
		}
		p.importConf(conf)

		if waitAll {
			waiter.Done()
		} else if callback != nil {
			callback()
		}
	}()

	go func() {
		data, _ := os.ReadFile(p.OvpnPath)
		p.Data = string(data)
		p.parseData()

		if waitAll {
			waiter.Done()
		}
	}()

	go func() {
		data, _ := os.ReadFile(p.LogPath)
		p.Log = string(data)

		if waitAll {
			waiter.Done()
		}
	}()
}

// importConf resets the runtime state and replaces the metadata fields
// from a persisted record. Absent fields default to unset; an existing
// display name survives an empty record name.
func (p *Profile) importConf(conf Conf) {
	p.Status = StatusDisconnected
	p.ServerAddr = ""
	p.ClientAddr = ""

	if conf.Name != "" {
		p.Name = conf.Name
	}
	p.OrganizationID = conf.OrganizationID
	p.Organization = conf.Organization
	p.ServerID = conf.ServerID
	p.Server = conf.Server
	p.UserID = conf.UserID
	p.User = conf.User
	p.PasswordMode = conf.PasswordMode
	p.Token = conf.Token
	p.TokenTTL = conf.TokenTTL
	p.AuthToken = conf.AuthToken
	p.AuthTokenTime = conf.AuthTokenTime
	p.Autostart = conf.Autostart
	p.SyncHosts = conf.SyncHosts
	if p.SyncHosts == nil {
		p.SyncHosts = []string{}
	}
	p.SyncHash = conf.SyncHash
	p.SyncSecret = conf.SyncSecret
	p.SyncToken = conf.SyncToken
}

// ExportConf projects the profile into its persisted metadata record.
func (p *Profile) ExportConf() Conf {
	return Conf{
		Name:           p.Name,
		OrganizationID: p.OrganizationID,
		Organization:   p.Organization,
		ServerID:       p.ServerID,
		Server:         p.Server,
		UserID:         p.UserID,
		User:           p.User,
		PasswordMode:   p.PasswordMode,
		Token:          p.Token,
		TokenTTL:       p.TokenTTL,
		AuthToken:      p.AuthToken,
		AuthTokenTime:  p.AuthTokenTime,
		Autostart:      p.Autostart,
		SyncHosts:      p.SyncHosts,
		SyncHash:       p.SyncHash,
		SyncSecret:     p.SyncSecret,
		SyncToken:      p.SyncToken,
	}
}

// SaveConf persists the metadata record. Write failures are logged and
// the callback still fires; in-memory state stays current either way.
func (p *Profile) SaveConf(callback func(error)) {
	data, err := json.Marshal(p.ExportConf())
	if err == nil {
		err = os.WriteFile(p.ConfPath, data, 0600)
	}
	if err != nil {
		err = common.Wrapf(common.ErrWrite,
			"profile: Failed to save profile conf (%s)", err)
		common.LogErr(err)
	}

	if p.OnUpdate != nil {
		p.OnUpdate()
	}
	if callback != nil {
		callback(err)
	}
}

// SaveData persists the configuration text record. When a secret store
// is available, inline key material is excised into it first, so the
// stored text never carries keys. The cached directive fields are
// recomputed afterwards.
func (p *Profile) SaveData(callback func(error)) {
	if keyringAvailable() {
		p.extractKey()
	}

	err := os.WriteFile(p.OvpnPath, []byte(p.Data), 0600)
	if err != nil {
		err = common.Wrapf(common.ErrWrite,
			"profile: Failed to save profile data (%s)", err)
		common.LogErr(err)
	}

	p.parseData()
	if callback != nil {
		callback(err)
	}
}

// SaveLog persists the connection log record.
func (p *Profile) SaveLog(callback func(error)) {
	err := os.WriteFile(p.LogPath, []byte(p.Log), 0600)
	if err != nil {
		err = common.Wrapf(common.ErrWrite,
			"profile: Failed to save profile log (%s)", err)
		common.LogErr(err)
	}

	if callback != nil {
		callback(err)
	}
}

// Delete disconnects the profile and purges its three records plus any
// secret store entry. Every removal is best-effort; failures are
// logged, never fatal to the others.
func (p *Profile) Delete() {
	p.Disconnect()

	if keyringAvailable() {
		if err := keyring.Delete(p.ID); err != nil {
			common.LogErr(common.Wrapf(common.ErrProcess,
				"profile: Failed to remove key from keyring (%s)", err))
		}
	}

	for _, remove := range []struct {
		pth  string
		name string
	}{
		{p.ConfPath, "conf"},
		{p.OvpnPath, "data"},
		{p.LogPath, "log"},
	} {
		if !common.FileExists(remove.pth) {
			continue
		}
		if err := os.Remove(remove.pth); err != nil {
			common.LogErr(common.Wrapf(common.ErrRemove,
				"profile: Failed to delete profile %s (%s)", remove.name, err))
		}
	}
}

// Update applies an externally observed status change and publishes it
// on the event bus for display refresh.
func (p *Profile) Update(data StatusUpdate) {
	p.Status = data.Status
	p.Timestamp = data.Timestamp
	p.ServerAddr = data.ServerAddr
	p.ClientAddr = data.ClientAddr

	if p.OnUpdate != nil {
		p.OnUpdate()
	}

	evt := &event.Event{
		Type: event.TypeUpdate,
		Data: p.ID,
	}
	evt.Publish()
}

// PushOutput appends a line to the connection log and publishes it on
// the event bus.
func (p *Profile) PushOutput(output string) {
	if p.Log != "" {
		p.Log += "\n" + output
	} else {
		p.Log = output
	}

	if p.OnOutput != nil {
		p.OnOutput(output)
	}

	evt := &event.Event{
		Type: event.TypeOutput,
		Data: &OutputData{
			ID:     p.ID,
			Output: output,
		},
	}
	evt.Publish()
}

// cutKeyData splices the tls-auth and key blocks, in that order, out
// of configuration text, returning the concatenated key material and
// the remaining text.
func cutKeyData(data string) (string, string) {
	keyData := ""

	block, rest := CutBlock(data, "<tls-auth>", "</tls-auth>\n")
	if block != "" {
		keyData += block
		data = rest
	}

	block, rest = CutBlock(data, "<key>", "</key>\n")
	if block != "" {
		keyData += block
		data = rest
	}

	return keyData, data
}

// extractKey excises the tls-auth and key blocks from the configuration
// text and replaces the profile's secret store entry with their base64
// encoding.
func (p *Profile) extractKey() {
	keyData, rest := cutKeyData(p.Data)
	if keyData == "" {
		return
	}
	p.Data = rest

	encoded := base64.StdEncoding.EncodeToString([]byte(keyData))
	if err := keyring.Set(p.ID, encoded); err != nil {
		common.LogErr(common.Wrapf(common.ErrProcess,
			"profile: Failed to add key to keyring (%s)", err))
	}
}

// FullData hands the connection-ready configuration text to callback,
// re-appending any key material held in the secret store. The
// reconstruction lives only in memory and is never persisted back.
func (p *Profile) FullData(callback func(data string)) {
	if !keyringAvailable() {
		callback(p.Data)
		return
	}

	encoded, err := keyring.Get(p.ID)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			common.LogErr(common.Wrapf(common.ErrProcess,
				"profile: Failed to get key from keyring (%s)", err))
			return
		}
		callback(p.Data)
		return
	}

	keyData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		common.LogErr(common.Wrapf(common.ErrProcess,
			"profile: Failed to decode key from keyring (%s)", err))
		return
	}

	callback(p.Data + string(keyData))
}

// Connect starts a connection attempt: sync first when sync hosts are
// configured (the sync outcome is ignored), then authenticate and hand
// off to the privileged service.
func (p *Profile) Connect(timeout bool, authCallback AuthCallback) {
	if len(p.SyncHosts) > 0 {
		hosts := append([]string(nil), p.SyncHosts...)
		p.Sync(hosts, func() {
			p.Auth(timeout, authCallback)
		})
	} else {
		p.Auth(timeout, authCallback)
	}
}

// Auth resolves the required credential factors and hands off to the
// service. Profiles that need no interactive credentials start
// immediately. A required interactive factor with no callback drops
// the request.
func (p *Profile) Auth(timeout bool, callback AuthCallback) {
	authType := p.AuthType()
	authToken := p.rotateAuthToken()

	if authType == "" {
		if callback != nil {
			callback("", nil)
		}
		p.start(timeout, authToken, "", "")
	} else if callback == nil {
		// Interactive credentials required with nowhere to collect
		// them from; the request is silently dropped.
	} else {
		callback(authType, func(username, password string) {
			if username == "" {
				username = common.DefaultUser
			}
			p.start(timeout, authToken, username, password)
		})
	}
}

// Disconnect delegates to the service stop contract. Idempotent.
func (p *Profile) Disconnect() {
	if p.svc != nil {
		p.svc.Stop(p)
	}
}

func (p *Profile) start(timeout bool, authToken, username, password string) {
	if p.svc != nil {
		p.svc.Start(p, timeout, authToken, username, password)
	}
}
