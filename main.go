// Package main provides the entry point for the TunnelDeck application.
// TunnelDeck is a terminal control panel for an AmneziaWG tunnel that
// streams the output of every tunnel command into a color-coded log.
//
// Features:
//   - Interactive terminal panel with key-driven tunnel actions
//   - System tray indicator with the same actions in a menu
//   - One-shot command-line mode for scripting and automation
//   - Desktop notifications for finished commands
//   - Passive connectivity probing with health reporting
//
// Usage:
//
//	tunneldeck [options]
//
// Environment:
//
//	The application requires awg-quick (AmneziaWG) to be installed,
//	unless the tunnel commands are overridden in the configuration.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/mohsafer/tunneldeck/cli"
	"github.com/mohsafer/tunneldeck/common"
	"github.com/mohsafer/tunneldeck/config"
	"github.com/mohsafer/tunneldeck/notify"
	"github.com/mohsafer/tunneldeck/tunnel"
	"github.com/mohsafer/tunneldeck/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	// General flags
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")

	// One-shot CLI flags
	upFlag     = flag.Bool("up", false, "Bring the tunnel up and exit")
	downFlag   = flag.Bool("down", false, "Bring the tunnel down and exit")
	statusFlag = flag.Bool("status", false, "Show tunnel status and exit")
	myIPFlag   = flag.Bool("my-ip", false, "Show public IP and exit")

	// Surface selection
	trayFlag = flag.Bool("tray", false, "Run as a system tray indicator")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		os.Exit(0)
	}

	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}

	if err := common.InitLogger(common.LogConfig{
		Level:      logLevel,
		EnableFile: true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manager := tunnel.NewManager(cfg, nil)

	// A missing tunnel tool is only fatal when the default commands
	// depend on it; overrides may use any tool they like.
	if cfg.UpCommand == "" || cfg.DownCommand == "" {
		if err := manager.CheckToolInstalled(); err != nil {
			common.LogError("Tunnel tool check failed: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	setupSignalHandler(manager)

	if *upFlag || *downFlag || *statusFlag || *myIPFlag {
		runCLI(manager)
		return
	}

	notifier := notify.New(cfg.ShowNotifications)
	defer notifier.Close()

	prober := tunnel.NewProber(tunnel.ProbeConfig{
		Interval: cfg.Health.Interval.Std(),
		Hosts:    cfg.Health.Hosts,
	})

	if *trayFlag {
		common.LogInfo("Starting %s v%s (tray)", common.AppName, appVersion)
		tray := ui.NewTray(manager, notifier)
		if cfg.Health.Enabled {
			prober.SetOnChange(func(oldState, newState tunnel.HealthState) {
				tray.SetHealth(newState)
			})
			prober.Start()
			defer prober.Stop()
		}
		tray.Run()
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the interactive panel needs a terminal; use --up/--down/--status/--my-ip for scripting")
		os.Exit(1)
	}

	common.LogInfo("Starting %s v%s (panel)", common.AppName, appVersion)
	if !cfg.Health.Enabled {
		prober = nil
	}
	if err := ui.RunPanel(manager, prober, notifier); err != nil {
		common.LogError("Panel exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCLI executes exactly one one-shot action and exits non-zero on
// failure.
func runCLI(manager *tunnel.Manager) {
	cliApp := cli.New(manager)

	var cliErr error
	switch {
	case *upFlag:
		cliErr = cliApp.Up()
	case *downFlag:
		cliErr = cliApp.Down()
	case *statusFlag:
		cliErr = cliApp.Status()
	case *myIPFlag:
		cliErr = cliApp.MyIP()
	}

	if cliErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cliErr)
		os.Exit(1)
	}
}

// setupSignalHandler cancels the in-flight run on SIGINT/SIGTERM so the
// child process is reaped and the outcome is still delivered.
func setupSignalHandler(manager *tunnel.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, cancelling any running command...", sig)
		_ = manager.Cancel()
	}()
}
