package app

import (
	"log/slog"

	"github.com/treykane/filecols/internal/logging"
)

// appLog is the package-level structured logger for the app package.
var appLog = logging.New("app")

// setStatusError shows status in the status bar and logs it with err and
// any extra slog key-value attrs:
//
//	m.setStatusError("Cannot enter directory", err, "path", path)
//
// Only status reaches the screen; the error details go to the log file.
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.notify(status, true)
	fields := make([]any, 0, len(attrs)+1)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
