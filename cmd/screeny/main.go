package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/screenyapp/screeny/internal/config"
	"github.com/screenyapp/screeny/internal/daemon"
	"github.com/screenyapp/screeny/internal/ipc"
	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/manager"
	"github.com/screenyapp/screeny/internal/monitors"
	"github.com/screenyapp/screeny/internal/placement"
	"github.com/screenyapp/screeny/internal/platform"
	"github.com/screenyapp/screeny/internal/screen"
	"github.com/screenyapp/screeny/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: screeny daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: screeny daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "apply":
		os.Exit(runApply(os.Args[2:]))
	case "pause":
		os.Exit(runPause(os.Args[2:]))
	case "resume":
		os.Exit(runResume(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "screens":
		os.Exit(runScreens(os.Args[2:]))
	case "rules":
		os.Exit(runRules(os.Args[2:]))
	case "monitor":
		os.Exit(runMonitor(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: screeny <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the screeny daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  apply               Request an immediate placement pass")
	fmt.Fprintln(w, "  pause               Suspend placement passes")
	fmt.Fprintln(w, "  resume              Resume placement passes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List available layouts")
	fmt.Fprintln(w, "  layout preview      Check whether a layout could activate")
	fmt.Fprintln(w, "  layout activate     Activate a layout")
	fmt.Fprintln(w, "  layout deactivate   Deactivate the active layout")
	fmt.Fprintln(w, "  layout active       Show the active layout")
	fmt.Fprintln(w, "  layout create       Create a layout from the current screens")
	fmt.Fprintln(w, "  layout default      Set (or clear) the default layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  screens             Show the current screen configuration")
	fmt.Fprintln(w, "  rules               Show the active layout's resolved rules")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  monitor list        List known monitors")
	fmt.Fprintln(w, "  monitor prune       Remove a monitor from the history")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive layout browser")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'screeny <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(status)
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("active_layout:  %s\n", status.ActiveLayout)
	fmt.Printf("paused:         %v\n", status.Paused)
	fmt.Printf("screens:        %s\n", status.ScreenSummary)
	if !status.LastApply.IsZero() {
		fmt.Printf("last_apply:     %s (applied=%d failed=%d)\n",
			status.LastApply.Format("15:04:05"),
			status.LastResult.Applied, status.LastResult.Failed)
	}
	return 0
}

func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny apply")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Request an immediate placement pass from the daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "apply takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.ApplyNow(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPause(args []string) int {
	fs := flag.NewFlagSet("pause", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny pause")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Suspend placement passes (detection keeps running).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Pause(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("paused")
	return 0
}

func runResume(args []string) int {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny resume")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resume placement passes.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Resume(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("resumed")
	return 0
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  screeny layout list [--json]")
	fmt.Fprintln(w, "  screeny layout preview <layout>")
	fmt.Fprintln(w, "  screeny layout activate <layout>")
	fmt.Fprintln(w, "  screeny layout deactivate")
	fmt.Fprintln(w, "  screeny layout active [--json]")
	fmt.Fprintln(w, "  screeny layout create [--description TEXT] <name>")
	fmt.Fprintln(w, "  screeny layout default [<layout>|--clear]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'screeny layout <command> --help' for command-specific options.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout list [--json]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "List available layouts and current selection.")
		}
		jsonOut := fs.Bool("json", false, "Output layout details as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "layout list takes no arguments")
			fs.Usage()
			return 2
		}

		data, err := client.ListLayouts()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		if *jsonOut {
			return printJSON(data)
		}

		fmt.Printf("default_layout: %s\n", data.DefaultLayout)
		fmt.Printf("active_layout:  %s\n", data.ActiveLayout)
		for _, info := range data.Layouts {
			desc := ""
			if info.Description != "" {
				desc = " - " + info.Description
			}
			fmt.Printf("- %s (%d screens)%s\n", info.Name, info.TotalScreens, desc)
		}
		return 0

	case "preview":
		fs := flag.NewFlagSet("preview", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout preview <layout>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Check whether a layout could activate right now, without activating it.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "layout preview requires <layout>")
			fs.Usage()
			return 2
		}

		preview, err := client.PreviewLayout(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("layout:    %s\n", preview.Name)
		fmt.Printf("can_apply: %v\n", preview.CanApply)
		fmt.Printf("reason:    %s\n", preview.Reason)
		fmt.Printf("rules:     %d\n", preview.RulesCount)
		fmt.Printf("current:   %s\n", preview.CurrentConfig)
		return 0

	case "activate":
		fs := flag.NewFlagSet("activate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout activate <layout>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Activate a layout. Fails when the current screens don't meet its requirements.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "layout activate requires <layout>")
			fs.Usage()
			return 2
		}

		data, err := client.ActivateLayout(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("activated %q (%d rules)\n", data.Name, data.RulesCount)
		return 0

	case "deactivate":
		fs := flag.NewFlagSet("deactivate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout deactivate")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Deactivate the active layout. Windows keep their current placement.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.DeactivateLayout()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if data.Deactivated {
			fmt.Printf("deactivated %q\n", data.Layout)
		} else {
			fmt.Println("no active layout")
		}
		return 0

	case "active":
		fs := flag.NewFlagSet("active", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout active [--json]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Show the active layout.")
		}
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.GetActiveLayout()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		if *jsonOut {
			return printJSON(data)
		}

		if !data.Active {
			fmt.Println("no active layout")
			return 0
		}
		fmt.Printf("layout:       %s\n", data.Name)
		fmt.Printf("file:         %s\n", data.FileName)
		fmt.Printf("activated_at: %s\n", data.ActivatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("rules:        %d\n", data.RulesCount)
		for display, monitorID := range data.DisplayMap {
			fmt.Printf("DISPLAY%d -> %s\n", display, monitorID)
		}
		return 0

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout create [--description TEXT] <name>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Write a new layout file describing the current screen configuration,")
			fmt.Fprintln(os.Stderr, "with an empty rule list to fill in by hand.")
		}
		description := fs.String("description", "", "Layout description")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "layout create requires <name>")
			fs.Usage()
			return 2
		}

		fileName, err := client.CreateLayout(fs.Arg(0), *description)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("created %s\n", fileName)
		return 0

	case "default":
		fs := flag.NewFlagSet("default", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny layout default [<layout>|--clear]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Set the layout activated automatically at daemon startup.")
		}
		clear := fs.Bool("clear", false, "Clear the default layout")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		name := ""
		if !*clear {
			if fs.NArg() < 1 {
				fmt.Fprintln(os.Stderr, "layout default requires <layout> (or --clear)")
				fs.Usage()
				return 2
			}
			name = fs.Arg(0)
		}

		if err := client.SetDefaultLayout(name); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if name == "" {
			fmt.Println("default layout cleared")
		} else {
			fmt.Printf("default layout set to %q\n", name)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runScreens(args []string) int {
	fs := flag.NewFlagSet("screens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny screens [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the current screen configuration.")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetScreens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(data)
	}

	fmt.Println(data.Summary)
	for _, scr := range data.Screens {
		primary := ""
		if scr.Primary {
			primary = " primary"
		}
		fmt.Printf("DISPLAY%d: %s %dx%d (%s)%s -> %s\n",
			scr.DisplayNumber, scr.Name, scr.Width, scr.Height,
			scr.Orientation, primary, scr.MonitorID)
	}
	return 0
}

func runRules(args []string) int {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny rules [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the active layout's rules with resolved target monitors.")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetActiveRules()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(data)
	}

	if data.Layout == "" {
		fmt.Println("no active layout")
		return 0
	}
	fmt.Printf("layout: %s (%d rules)\n", data.Layout, len(data.Rules))
	for _, r := range data.Rules {
		fmt.Printf("- %s: %s %q -> DISPLAY%d (%s), %s\n",
			r.RuleID, r.MatchType, r.MatchValue, r.TargetDisplay, r.TargetMonitorID, r.Mode)
	}
	return 0
}

func printMonitorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  screeny monitor list [--json]")
	fmt.Fprintln(w, "  screeny monitor prune <monitor-id>")
}

func runMonitor(args []string) int {
	if len(args) == 0 {
		printMonitorUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printMonitorUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny monitor list [--json]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "List monitors ever seen by the daemon.")
		}
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.GetMonitors()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		if *jsonOut {
			return printJSON(data)
		}

		fmt.Printf("default_layout: %s\n", data.DefaultLayout)
		for _, m := range data.Monitors {
			fmt.Printf("- %s: %s %dx%d (last connected %s)\n",
				m.ID, m.Name, m.Width, m.Height,
				m.LastConnected.Format("2006-01-02 15:04"))
		}
		return 0

	case "prune":
		fs := flag.NewFlagSet("prune", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: screeny monitor prune <monitor-id>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Remove a monitor from the known-monitors history.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "monitor prune requires <monitor-id>")
			fs.Usage()
			return 2
		}

		if err := client.PruneMonitor(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("pruned %s\n", fs.Arg(0))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown monitor command: %s\n\n", args[0])
		printMonitorUsage(os.Stderr)
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screeny tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the interactive layout browser (requires a running daemon).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	t := tui.New(ipc.NewClient())
	if err := t.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (layouts: %s)", cfg.LayoutsDir)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	// Open the known-monitors history
	registry, err := monitors.Open(cfg.MonitorsFile, logger)
	if err != nil {
		log.Fatalf("Failed to open monitor registry: %v", err)
	}

	store := layout.NewStore(cfg.LayoutsDir)
	detector := screen.NewDetector(backend, registry, logger)
	mgr := manager.New(store, detector, logger)
	engine := placement.NewEngine(backend, logger)

	scheduler := daemon.NewScheduler(daemon.SchedulerConfig{
		ApplyInterval:  cfg.ApplyInterval(),
		DetectInterval: cfg.DetectInterval(),
		Logger:         logger,
	}, mgr, detector, engine)

	// Activation and deactivation trigger an immediate pass.
	mgr.OnChange(scheduler.ApplyNow)

	// Start IPC server
	ipcServer, err := ipc.NewServer(mgr, store, detector, registry, scheduler)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Start scheduler in background
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	go scheduler.Run(schedCtx)

	log.Println("screeny daemon started successfully")

	// Activate the default layout, if one is configured and compatible.
	if name := registry.DefaultLayout(); name != "" {
		if _, err := mgr.Activate(name); err != nil {
			log.Printf("Default layout %q not activated: %v", name, err)
		} else {
			log.Printf("Default layout %q activated", name)
		}
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	log.Println("Shutting down screeny daemon...")
	schedCancel()
	ipcServer.Stop()
}
