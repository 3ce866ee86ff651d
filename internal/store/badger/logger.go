package badger

import (
	"strings"

	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// badgerLogger adapts our logger to badger.Logger.
// Badger is chatty at info level, its info lines are logged as debug.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.log.Errorf("badger: "+strings.TrimSuffix(f, "\n"), v...)
}

func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.log.Warnf("badger: "+strings.TrimSuffix(f, "\n"), v...)
}

func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.log.Debugf("badger: "+strings.TrimSuffix(f, "\n"), v...)
}

func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.log.Debugf("badger: "+strings.TrimSuffix(f, "\n"), v...)
}
