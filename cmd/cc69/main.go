package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/jypelle/cc69/internal/srv"
	"github.com/jypelle/cc69/internal/version"
	"github.com/sirupsen/logrus"
)

const configSuffix = "cc69"

func init() {
	// SDL and OpenGL calls must all come from the main thread
	runtime.LockOSThread()
}

func main() {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of cc69 config folder")

	dataPath := flag.String("data", "", "Location of the kiosk images (backgrounds, clock, game blocks)")
	screenSize := flag.String("size", "", "Window size as height,width")
	gatewareDevice := flag.String("g", "", "Serial device of the Gateware board")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nA photo kiosk with a clock, a slideshow and a block game\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  run       Run the kiosk\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	// run command
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)

	runCmd.Usage = func() {
		fmt.Printf("\nUsage: %s run [PHOTO FOLDER...]\n", mainCommand)
		fmt.Printf("\nRun the kiosk on the given photo folders, or the ones of param.yaml\n")
	}

	// version command
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	versionCmd.Usage = func() {
		fmt.Printf("\nUsage: %s version\n", mainCommand)
		fmt.Printf("\nShow the version information\n")
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	switch flag.Arg(0) {
	case "run":
		runCmd.Parse(flag.Args()[1:])
	case "version":
		versionCmd.Parse(flag.Args()[1:])
		if versionCmd.NArg() > 0 {
			fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
			versionCmd.Usage()
			os.Exit(1)
		}
	default:
		fmt.Printf("\n%s is not a cc69 command\n", flag.Args()[0])
		flag.Usage()
		os.Exit(1)
	}
	// endregion

	if versionCmd.Parsed() {
		fmt.Printf("Version %s\n", version.AppVersion.String())
		return
	}

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	// Create cc69 server
	serverApp := srv.NewServerApp(*configDir, *debugMode)

	// Command line overrides param.yaml
	if *dataPath != "" {
		serverApp.DataPath = *dataPath
	}
	if *screenSize != "" {
		var height, width int64
		if _, err := fmt.Sscanf(*screenSize, "%d,%d", &height, &width); err != nil || height <= 0 || width <= 0 {
			fmt.Printf("\nInvalid size \"%s\", expected height,width\n", *screenSize)
			os.Exit(1)
		}
		serverApp.ScreenParam.Width = width
		serverApp.ScreenParam.Height = height
	}
	if *gatewareDevice != "" {
		serverApp.GatewareParam.Device = *gatewareDevice
	}
	if runCmd.NArg() > 0 {
		serverApp.PhotoRoots = runCmd.Args()
	}

	// Listen stop signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-ch
		logrus.Infof("Received signal: %v", sig)
		serverApp.AskStop()
	}()

	serverApp.Start()
	serverApp.Run()
	serverApp.Stop()
}
