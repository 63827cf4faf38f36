package actor

import (
	"log"
	"os"
	"sync/atomic"
)

// pkgLogger is a single *log.Logger shared by every actor-core
// goroutine, matching the teacher's one-logger-per-component convention
// (cmd/gameserver/gameserver.go calls log.SetOutput/log.SetFlags once at
// startup; everything else just calls log.Printf). SetLogger lets an
// embedding application redirect this without a global log.SetOutput call
// that would also affect unrelated packages.
var pkgLogger atomic.Pointer[log.Logger]

func init() {
	pkgLogger.Store(log.New(os.Stderr, "[odin/actor] ", log.LstdFlags|log.Lmicroseconds))
}

// SetLogger replaces the package-wide logger used for run-loop panics,
// spawned-task panics and other conditions that have no other observer.
func SetLogger(l *log.Logger) {
	pkgLogger.Store(l)
}

func logger() *log.Logger {
	return pkgLogger.Load()
}
