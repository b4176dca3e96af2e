// Package logger holds the process-wide structured logger. It follows the
// teacher's pattern of a single atomically-swapped *zap.SugaredLogger
// rather than threading a logger through every constructor.
package logger

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// L returns the current process-wide logger. Safe to call before Init;
// returns a no-op logger in that case.
func L() *zap.SugaredLogger {
	p := (*zap.SugaredLogger)(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&logger))))
	if p == nil {
		return zap.NewNop().Sugar()
	}
	return p
}

var initOnce sync.Once

// Init builds the production zap logger and installs it as the
// process-wide logger. Safe to call more than once; only the first call
// takes effect.
func Init() {
	initOnce.Do(func() {
		base, err := zap.NewProduction()
		if err != nil {
			base = zap.NewNop()
		}
		sugar := base.Sugar()
		atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(&logger)), unsafe.Pointer(sugar))
	})
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	_ = L().Sync()
}
