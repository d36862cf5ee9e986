package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

var debugLogger *log.Logger

func debugLog(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}

const errorLogName = "errorlog.txt"

func main() {
	var configFile = flag.String("config", "", "Path to TOML config file")
	var debugFile = flag.String("d", "", "Debug log filename")
	var baseURL = flag.String("u", "", "Base URL for the radio service")
	var volume = flag.Int("volume", -1, "Starting volume (0-9)")
	var noAudio = flag.Bool("no-audio", false, "Disable music playback")
	flag.Parse()

	settings := DefaultSettings()

	config, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load config '%s': %v\n", *configFile, err)
		os.Exit(1)
	}
	if err := settings.Apply(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the config file.
	if *baseURL != "" {
		settings.BaseURL = *baseURL
	}
	if *volume != -1 {
		if *volume < 0 || *volume > 9 {
			fmt.Fprintf(os.Stderr, "Error: volume must be between 0 and 9\n")
			os.Exit(1)
		}
		settings.Volume = *volume
	}
	if *noAudio {
		settings.AudioEnabled = false
	}

	if *debugFile != "" {
		file, err := os.OpenFile(*debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open debug log file '%s': %v\n", *debugFile, err)
			os.Exit(1)
		}
		defer file.Close()
		debugLogger = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
		debugLog("Debug logging started for jsrlive-cli")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	client := NewRadioClient(settings.BaseURL)
	artifact := filepath.Join(os.TempDir(), "jsrlive-track.mp3")

	sessionErr := NewSession(screen, client, settings, artifact).Run()

	screen.Clear()
	screen.Fini()

	if sessionErr != nil {
		reportFatal(sessionErr)
		os.Exit(1)
	}
}

// reportFatal writes the diagnostic log and tells the user where to
// send it, waiting for an acknowledgment so the message is readable.
func reportFatal(err error) {
	if werr := os.WriteFile(errorLogName, []byte(err.Error()+"\n"), 0644); werr != nil {
		fmt.Fprintf(os.Stderr, "Fatal error (could not write %s): %v\n", errorLogName, err)
		return
	}
	fmt.Printf("Fatal error occured: please send %s to bb via pqlime@gmail.com\n", errorLogName)
	fmt.Println("Press enter to exit.")
	bufio.NewReader(os.Stdin).ReadString('\n')
}
