package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/posekit/posekit"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "posekit.toml", "Path to the TOML config file")
	importDir := flag.String("import", "", "Watch this directory for dropped pose files")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := run(*configPath, *importDir, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "posekit:", err)
		os.Exit(1)
	}
}

func run(configPath, importDir string, debug bool) error {
	cfg, err := posekit.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if importDir != "" {
		cfg.ImportDir = importDir
	}
	cfg.Debug = cfg.Debug || debug

	log := posekit.NewDefaultLogger("posekit", cfg.Debug)

	app, err := posekit.Boot(cfg, posekit.Options{Log: log})
	if err != nil {
		return err
	}
	defer app.Destroy()

	window, err := posekit.NewWindowState(cfg.Window, app.Input, log)
	if err != nil {
		return err
	}
	defer window.Destroy()

	width, height := window.Size()
	app.Resize(width, height)

	// The window callbacks must fire on the main thread, so the frame loop
	// runs here instead of app.Start.
	for !window.ShouldClose() {
		window.Pump()
		app.Tick()
		time.Sleep(time.Second / 60)
	}
	return nil
}
