package profile

import (
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// logoColors maps the first base64 character of the MD5 digest of a
// profile's display name to a fixed palette entry, giving every profile
// a stable color.
var logoColors = map[string]string{
	"A": "#ff8a80",
	"B": "#ff5252",
	"C": "#ff1744",
	"D": "#d50000",
	"E": "#ff80ab",
	"F": "#ff4081",
	"G": "#f50057",
	"H": "#c51162",
	"I": "#ea80fc",
	"J": "#e040fb",
	"K": "#d500f9",
	"L": "#aa00ff",
	"M": "#b388ff",
	"N": "#7c4dff",
	"O": "#651fff",
	"P": "#6200ea",
	"Q": "#8c9eff",
	"R": "#536dfe",
	"S": "#3d5afe",
	"T": "#304ffe",
	"U": "#82b1ff",
	"V": "#448aff",
	"W": "#2979ff",
	"X": "#2962ff",
	"Y": "#80d8ff",
	"Z": "#40c4ff",
	"a": "#00b0ff",
	"b": "#0091ea",
	"c": "#84ffff",
	"d": "#18ffff",
	"e": "#00e5ff",
	"f": "#00b8d4",
	"g": "#a7ffeb",
	"h": "#64ffda",
	"i": "#1de9b6",
	"j": "#00bfa5",
	"k": "#b9f6ca",
	"l": "#69f0ae",
	"m": "#00e676",
	"n": "#00c853",
	"o": "#ccff90",
	"p": "#b2ff59",
	"q": "#76ff03",
	"r": "#64dd17",
	"s": "#ffff8d",
	"t": "#ffff00",
	"u": "#ffea00",
	"v": "#ffd600",
	"w": "#ffd180",
	"x": "#ffab40",
	"y": "#ff9100",
	"z": "#ff6d00",
	"0": "#ff9e80",
	"1": "#ff6e40",
	"2": "#ff3d00",
	"3": "#dd2c00",
	"4": "#d7ccc8",
	"5": "#bcaaa4",
	"6": "#8d6e63",
	"7": "#5d4037",
	"8": "#cfd8dc",
	"9": "#b0bec5",
	"+": "#78909c",
	"/": "#37474f",
}

// Export is the read-only display projection of a profile.
type Export struct {
	Logo           string
	LogoColor      string
	Status         string
	ServerAddr     string
	ClientAddr     string
	Name           string
	OrganizationID string
	Organization   string
	ServerID       string
	Server         string
	UserID         string
	User           string
	Autostart      string
	SyncHosts      []string
	SyncHash       string
	SyncSecret     string
	SyncToken      string
}

// FormatedNameLogo resolves the display name and its single-character
// logo, falling back through user/organization, server, the UV_NAME
// directive, and finally a placeholder.
func (p *Profile) FormatedNameLogo() (string, string) {
	name := p.Name
	var logo string

	if name == "" {
		switch {
		case p.User != "":
			name = p.User
			if p.Organization != "" {
				name += "@" + p.Organization
			}

			if p.Server != "" {
				name += " (" + p.Server + ")"
				logo = firstRune(p.Server)
			} else {
				logo = firstRune(p.User)
			}
		case p.Server != "":
			name = p.Server
			logo = firstRune(p.Server)
		case p.UVName != "":
			name = p.UVName
			logo = firstRune(p.UVName)
		default:
			name = "Unknown Profile"
			logo = "U"
		}
	} else {
		logo = firstRune(name)
	}

	return name, logo
}

// firstRune returns the first character of s as a string, keeping
// multi-byte characters whole.
func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// Export produces the display projection: resolved name and logo, the
// deterministic logo color, a human status string, and blank-safe
// copies of the address and identity fields.
func (p *Profile) Export() Export {
	name, logo := p.FormatedNameLogo()

	digest := md5.Sum([]byte(name))
	hash := base64.StdEncoding.EncodeToString(digest[:])

	var status string
	switch p.Status {
	case StatusConnected:
		status = p.Uptime(0)
	case StatusConnecting:
		status = "Connecting"
	case StatusReconnecting:
		status = "Reconnecting"
	case StatusDisconnecting:
		status = "Disconnecting"
	default:
		status = "Disconnected"
	}

	serverAddr := p.ServerAddr
	if serverAddr == "" {
		serverAddr = "-"
	}
	clientAddr := p.ClientAddr
	if clientAddr == "" {
		clientAddr = "-"
	}

	autostart := "Off"
	if p.Autostart {
		autostart = "On"
	}

	syncHosts := p.SyncHosts
	if syncHosts == nil {
		syncHosts = []string{}
	}

	return Export{
		Logo:           logo,
		LogoColor:      logoColors[hash[:1]],
		Status:         status,
		ServerAddr:     serverAddr,
		ClientAddr:     clientAddr,
		Name:           name,
		OrganizationID: p.OrganizationID,
		Organization:   p.Organization,
		ServerID:       p.ServerID,
		Server:         p.Server,
		UserID:         p.UserID,
		User:           p.User,
		Autostart:      autostart,
		SyncHosts:      syncHosts,
		SyncHash:       p.SyncHash,
		SyncSecret:     p.SyncSecret,
		SyncToken:      p.SyncToken,
	}
}

// Uptime formats the elapsed connection time as the largest applicable
// units among days, hours, minutes and seconds. Empty unless the
// profile is connected with a known start time. A zero curTime means
// now.
func (p *Profile) Uptime(curTime int64) string {
	if p.Timestamp == 0 || p.Status != StatusConnected {
		return ""
	}

	if curTime == 0 {
		curTime = time.Now().Unix()
	}

	uptime := curTime - p.Timestamp
	var items []string

	if uptime > 86400 {
		units := uptime / 86400
		uptime -= units * 86400
		items = append(items, pluralUnit(units, "day"))
	}

	if uptime > 3600 {
		units := uptime / 3600
		uptime -= units * 3600
		items = append(items, pluralUnit(units, "hour"))
	}

	if uptime > 60 {
		units := uptime / 60
		uptime -= units * 60
		items = append(items, pluralUnit(units, "min"))
	}

	if uptime != 0 {
		items = append(items, pluralUnit(uptime, "sec"))
	}

	return strings.Join(items, " ")
}

func pluralUnit(units int64, unit string) string {
	s := fmt.Sprintf("%d %s", units, unit)
	if units > 1 {
		s += "s"
	}
	return s
}
