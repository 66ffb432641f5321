package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for level prefixes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

var (
	mu   sync.Mutex
	sink io.Writer
)

// Init hooks the standard logger up to the console and, when a sink is
// provided, mirrors every entry into it (typically the cache log list).
func Init(w io.Writer) {
	mu.Lock()
	sink = w
	mu.Unlock()
	log.SetOutput(&teeWriter{})
	log.SetFlags(0) // We handle timestamping and caller info ourselves.
}

// Info logs an informational message.
func Info(msg string) {
	log.Printf("%s %s[INFO]%s %s\n", timestamp(), colorGreen, colorReset, msg)
}

// Warn logs a warning message.
func Warn(msg string) {
	log.Printf("%s %s[WARN]%s %s\n", timestamp(), colorYellow, colorReset, msg)
}

// Error logs an error with the caller's file:line for context.
func Error(context string, err error) {
	log.Printf("%s %s[ERROR]%s in %s: %s\n%v\n", timestamp(), colorRed, colorReset, callerInfo(2), context, err)
}

// Fatal logs an error and then exits the program.
func Fatal(context string, err error) {
	log.Printf("%s %s[FATAL]%s in %s: %s\n%v\n", timestamp(), colorRed, colorReset, callerInfo(2), context, err)
	os.Exit(1)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func callerInfo(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	parts := strings.Split(file, "/")
	if len(parts) > 2 {
		file = strings.Join(parts[len(parts)-2:], "/")
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// teeWriter writes log output to the console and mirrors it into the sink.
type teeWriter struct{}

func (w *teeWriter) Write(p []byte) (n int, err error) {
	fmt.Print(string(p))
	mu.Lock()
	s := sink
	mu.Unlock()
	if s != nil {
		_, _ = s.Write(p)
	}
	return len(p), nil
}
