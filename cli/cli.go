// Package cli provides the terminal interface of the vpnetscape
// client: profile listing, connecting with interactive credential
// collection, and disconnecting.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/vpnetscape/client/common"
	"github.com/vpnetscape/client/profile"
	"github.com/vpnetscape/client/service"
)

// CLI is the command-line front end.
type CLI struct {
	svc *service.Client
}

// New creates a CLI instance backed by the privileged service client.
func New() *CLI {
	return &CLI{
		svc: service.New(),
	}
}

// loadProfiles loads the full profile collection, waiting for every
// record of every profile.
func (c *CLI) loadProfiles() ([]*profile.Profile, error) {
	var (
		prfls   []*profile.Profile
		loadErr error
	)

	done := make(chan struct{})
	profile.GetProfiles(c.svc, func(err error, loaded []*profile.Profile) {
		prfls = loaded
		loadErr = err
		close(done)
	}, true)
	<-done

	return prfls, loadErr
}

// ListProfiles prints every configured profile.
func (c *CLI) ListProfiles() error {
	prfls, err := c.loadProfiles()
	if err != nil {
		return err
	}

	if len(prfls) == 0 {
		fmt.Println("No profiles configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSERVER\tUSER\tAUTOSTART")
	fmt.Fprintln(w, "--\t----\t------\t------\t----\t---------")

	for _, prfl := range prfls {
		export := prfl.Export()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			prfl.ID,
			export.Name,
			export.Status,
			export.Server,
			export.User,
			export.Autostart,
		)
	}

	return w.Flush()
}

// Connect connects to a profile by display name or id, collecting any
// required credential factors from the terminal.
func (c *CLI) Connect(name string) error {
	prfl, err := c.findProfile(name)
	if err != nil {
		return err
	}

	export := prfl.Export()
	fmt.Printf("Connecting to %s...\n", export.Name)

	prfl.Connect(true, func(authType string, submit func(username, password string)) {
		if authType == "" {
			return
		}

		profile.RunAuthSequence(authType, promptFactor, submit)
	})

	return nil
}

// Disconnect disconnects a profile by name, or every profile when name
// is "all".
func (c *CLI) Disconnect(name string) error {
	prfls, err := c.loadProfiles()
	if err != nil {
		return err
	}

	if name == "all" {
		for _, prfl := range prfls {
			prfl.Disconnect()
		}
		fmt.Println("Disconnected all profiles.")
		return nil
	}

	prfl := matchProfile(prfls, name)
	if prfl == nil {
		return common.Wrapf(common.ErrRead, "cli: Profile not found (%s)", name)
	}

	prfl.Disconnect()
	fmt.Printf("Disconnected %s.\n", prfl.Export().Name)
	return nil
}

// Status prints whether the privileged service has an active
// connection.
func (c *CLI) Status() error {
	if !c.svc.Ping() {
		fmt.Println("Service: unreachable")
		return nil
	}

	connected, err := c.svc.Status()
	if err != nil {
		return err
	}

	if connected {
		fmt.Println("Status: connected")
	} else {
		fmt.Println("Status: disconnected")
	}
	return nil
}

func (c *CLI) findProfile(name string) (*profile.Profile, error) {
	prfls, err := c.loadProfiles()
	if err != nil {
		return nil, err
	}

	prfl := matchProfile(prfls, name)
	if prfl == nil {
		return nil, common.Wrapf(common.ErrRead, "cli: Profile not found (%s)", name)
	}
	return prfl, nil
}

func matchProfile(prfls []*profile.Profile, name string) *profile.Profile {
	for _, prfl := range prfls {
		display, _ := prfl.FormatedNameLogo()
		if prfl.ID == name || display == name {
			return prfl
		}
	}
	return nil
}

// factorLabels are the terminal prompts per credential factor kind.
var factorLabels = map[string]string{
	profile.FactorUsername: "Enter Username",
	profile.FactorPassword: "Enter Password",
	profile.FactorPin:      "Enter PIN",
	profile.FactorDuo:      "Enter Duo Passcode",
	profile.FactorYubikey:  "Enter YubiKey Token",
	profile.FactorOtp:      "Enter OTP Code",
}

// promptFactor collects one credential value from the terminal. Every
// factor except the username is read without echo. An empty entry
// cancels the sequence.
func promptFactor(factor string) (string, bool) {
	label, ok := factorLabels[factor]
	if !ok {
		label = "Enter " + factor
	}
	fmt.Printf("%s: ", label)

	if factor == profile.FactorUsername {
		reader := bufio.NewReader(os.Stdin)
		value, err := reader.ReadString('\n')
		if err != nil {
			return "", false
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}

	value, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", false
	}

	trimmed := strings.TrimSpace(string(value))
	return trimmed, trimmed != ""
}
