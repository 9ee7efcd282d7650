package dbbadger

import (
	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
)

// NewLogger returns a badger.Logger writing through logrus. Badger is quite
// verbose at info level, so its messages are only shown in debug mode.
func NewLogger() badger.Logger {
	return &logger{log.WithField("module", "badger")}
}

type logger struct {
	*log.Entry
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.Entry.Debugf(format, args...)
}
