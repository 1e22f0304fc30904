package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer
// so it can be used with log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
// service is sent as the _service field.
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Level maps a log line to a syslog severity.
func Level(msg string) int {
	switch {
	case strings.Contains(msg, "PANIC:") || strings.Contains(msg, "Fatal"):
		return 3
	case strings.HasPrefix(msg, "Warning:"):
		return 4
	default:
		return 6
	}
}

// stripLogPrefix removes the standard log date prefix "2006/01/02 15:04:05 ".
func stripLogPrefix(msg string) string {
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

// Write implements io.Writer. Each call sends one GELF message and never
// fails the log call.
func (w *Writer) Write(p []byte) (int, error) {
	short := stripLogPrefix(strings.TrimRight(string(p), "\n"))

	// Multi-line messages (stack traces) keep the first line short.
	full := ""
	if i := strings.IndexByte(short, '\n'); i >= 0 {
		full = short
		short = short[:i]
	}

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         Level(short),
		"_service":      w.service,
	}
	if full != "" {
		msg["full_message"] = full
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil
	}

	// Fire-and-forget
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}
