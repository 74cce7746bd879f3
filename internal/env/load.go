package env

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the editor.
const (
	ConfigVar = "EDITOR_CONFIG" // config file path
	LogVar    = "EDITOR_LOG"    // log file path, "-" or "off" disables the file
	DebugVar  = "EDITOR_DEBUG"  // any true value from strconv.ParseBool enables debug logs
)

// Load reads the given file (e.g. ".env") into the environment. Variables already set
// in the process win over the file. The file may be missing; that is not an error.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Overrides are the editor settings that may come from the environment. Empty or nil
// fields were not set.
type Overrides struct {
	ConfigPath string
	LogPath    *string
	Debug      *bool
}

// Read collects the EDITOR_* variables from the current environment.
func Read() Overrides {
	var o Overrides
	o.ConfigPath = strings.TrimSpace(os.Getenv(ConfigVar))
	if v, ok := os.LookupEnv(LogVar); ok {
		v = strings.TrimSpace(v)
		if v == "-" || strings.EqualFold(v, "off") {
			v = ""
		}
		o.LogPath = &v
	}
	if v, ok := os.LookupEnv(DebugVar); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			o.Debug = &b
		}
	}
	return o
}
