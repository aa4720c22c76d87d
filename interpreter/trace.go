package interpreter

import (
	log "github.com/sirupsen/logrus"

	"golox/ast"
)

// Statement level execution trace, off unless the driver raised the log
// level to debug (the LOX_TRACE env-var in cmd/golox). At the default level
// the IsLevelEnabled check keeps this out of the hot path.
func traceStmt(s ast.Stmt) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}

	log.WithField("stmt", ast.Printer{}.PrintStmt(s)).Debug("execute")
}
