package retained

import (
	"fmt"
	"io"
	"log"
	"os"
)

func newLogger(cfg LogConfig) *log.Logger {
	var out io.Writer = os.Stderr
	if cfg.Quiet {
		out = io.Discard
	}
	return log.New(out, cfg.Prefix, 0)
}

// warn reports misuse of the widget API. The offending call is a no-op.
func (a *App) warn(format string, args ...any) {
	a.logger.Output(2, "WARNING: "+fmt.Sprintf(format, args...))
}

// Logger returns the logger the App reports warnings to.
func (a *App) Logger() *log.Logger { return a.logger }
