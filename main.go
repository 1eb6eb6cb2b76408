// Package main provides the entry point for the vpnetscape client.
// The client manages VPN connection profiles: it synchronizes signed
// configuration updates from remote hosts, stores extracted key
// material in the system keyring, collects multi-factor credentials,
// and hands connection attempts to the privileged local service.
//
// Usage:
//
//	vpnetscape [options]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vpnetscape/client/cli"
	"github.com/vpnetscape/client/common"
	"github.com/vpnetscape/client/config"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z).
var (
	appVersion = "dev"
)

var (
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")

	listProfiles   = flag.Bool("list", false, "List all profiles")
	connectProfile = flag.String("connect", "", "Connect to a profile by name or id")
	disconnectVPN  = flag.String("disconnect", "", "Disconnect a profile (use 'all' or a name)")
	showStatus     = flag.Bool("status", false, "Show current connection status")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", common.AppName, appVersion)
		return
	}

	logger := common.GetLogger()
	if *verbose {
		logger.SetLevel(common.LevelDebug)
	}
	if err := logger.EnableFileLogging(); err != nil {
		common.LogWarn("main: Failed to enable file logging (%s)", err)
	}
	defer logger.Close()

	if _, err := config.Load(); err != nil {
		common.LogWarn("main: Failed to load settings (%s)", err)
	}

	c := cli.New()

	var err error
	switch {
	case *listProfiles:
		err = c.ListProfiles()
	case *connectProfile != "":
		err = c.Connect(*connectProfile)
	case *disconnectVPN != "":
		err = c.Disconnect(*disconnectVPN)
	case *showStatus:
		err = c.Status()
	default:
		flag.Usage()
	}

	if err != nil {
		common.LogErr(err)
		os.Exit(1)
	}
}
