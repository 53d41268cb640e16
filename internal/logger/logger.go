package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

type GinStyleFormatter struct {
	// DisableColors drops the ANSI escapes, for logs that end up in files or host consoles.
	DisableColors bool
}

func (f *GinStyleFormatter) Format(entry *log.Entry) ([]byte, error) {
	levelColor := "\033[37m" // Default white
	resetColor := "\033[0m"

	switch entry.Level {
	case log.InfoLevel:
		levelColor = "\033[32m" // Green
	case log.WarnLevel:
		levelColor = "\033[33m" // Yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = "\033[31m" // Red
	case log.DebugLevel, log.TraceLevel:
		levelColor = "\033[36m" // Cyan
	}
	if f.DisableColors {
		levelColor, resetColor = "", ""
	}

	timestamp := entry.Time.Format("2006/01/02 - 15:04:05")
	level := fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String()))

	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s] %s%s | %s", levelColor, timestamp, level, resetColor, entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Setup points the global logger at out with the given level name.
func Setup(level string, out io.Writer, colors bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(out)
	log.SetFormatter(&GinStyleFormatter{DisableColors: !colors})
	log.SetLevel(lvl)
	return nil
}

func sortedKeys(data log.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Until Setup runs, logs go to stderr without colors. stdout may be carrying
// the protocol.
func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&GinStyleFormatter{DisableColors: true})
	log.SetReportCaller(false) // Remove file:line
	log.SetLevel(log.InfoLevel)
}
