package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "careboard-debug.log"

// debugLog is nil unless debug mode is enabled; every logging helper is a
// no-op then.
var debugLog *zap.Logger

// InitDebugLogger opens the debug log when debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = nil
		return nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{DebugLogPath}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	debugLog = logger
	debugLog.Info("debug session started")
	return nil
}

// CloseDebugLogger flushes and closes the debug log.
func CloseDebugLogger() {
	if debugLog != nil {
		debugLog.Info("debug session ended")
		_ = debugLog.Sync()
	}
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil {
		return
	}
	debugLog.Debug("key press", zap.String("key", msg.String()))
}

// LogMouse logs a pointer event.
func LogMouse(msg tea.MouseMsg) {
	if debugLog == nil {
		return
	}
	debugLog.Debug("mouse",
		zap.Int("x", msg.X),
		zap.Int("y", msg.Y),
		zap.Int("action", int(msg.Action)),
		zap.Int("button", int(msg.Button)),
	)
}

// LogGesture logs a drag session transition.
func LogGesture(state SessionState, detail string) {
	if debugLog == nil {
		return
	}
	debugLog.Debug("gesture",
		zap.String("state", sessionStateString(state)),
		zap.String("detail", detail),
	)
}

// LogError logs an error with its context.
func LogError(context string, err error) {
	if debugLog == nil {
		return
	}
	debugLog.Error(context, zap.Error(err))
}

func sessionStateString(s SessionState) string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateArmed:
		return "armed"
	case StateResizing:
		return "resizing"
	case StateMoving:
		return "moving"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}
