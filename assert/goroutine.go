// Package assert provides debug-only invariant checks. Keep usage rare and
// cheap enough to leave compiled in.
package assert

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identifier for the calling goroutine. It is
// different between goroutines and consistent for a given goroutine, but
// it is only ever meant for debugging or testing.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// GoroutineOwner records the goroutine a value was created on and panics if
// later touched from a different one. The diagnostics HTTP server and the
// terminal monitor each run their own goroutine, and both poke at core
// state that is otherwise only ever touched by the single goroutine driving
// emulation - an owner check catches an accidental unsynchronised access
// from either of them immediately rather than as a data race discovered
// much later.
type GoroutineOwner struct {
	id uint64
}

// NewGoroutineOwner records the calling goroutine as owner.
func NewGoroutineOwner() GoroutineOwner {
	return GoroutineOwner{id: GetGoRoutineID()}
}

// Check panics if called from a goroutine other than the one that created
// the owner.
func (o GoroutineOwner) Check() {
	if id := GetGoRoutineID(); id != o.id {
		panic(fmt.Sprintf("assert: accessed from goroutine %d, owned by %d", id, o.id))
	}
}
