// Package logging sets up Apex with a single-line handler and a level taken
// from the SEARCHCACHE_LOG env variable.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// Init installs the handler and level. Call once at startup.
func Init() {
	level := strings.ToUpper(os.Getenv("SEARCHCACHE_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&lineHandler{})
	log.SetLevelFromString(level)
}

// lineHandler writes "timestamp L message key=value ..." to stdout.
type lineHandler struct{}

func (h *lineHandler) HandleLog(e *log.Entry) error {
	ts := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", ts, level, e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	fmt.Fprintln(os.Stdout, b.String())
	return nil
}
