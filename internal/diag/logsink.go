package diag

import "github.com/dfmod/rawc/internal/logger"

// LogSink records every Diagnostic through internal/logger (§7: "Diagnostic
// messages go to a standard error stream").
type LogSink struct{}

func (LogSink) Record(d Diagnostic) {
	logger.Warnf("%s [%s %s] %s:%s (%s): %s", d.Kind, d.ModName, d.ModVersion, d.ObjectType, d.ObjectID, d.SourceFile, d.Message)
}
