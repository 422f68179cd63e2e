package utils

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// GoSafe runs fn in a goroutine and keeps a panic from taking the process down.
// Panics are logged through the global zap logger; services install theirs
// with zap.ReplaceGlobals at startup.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Recovered from panic in goroutine",
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", debug.Stack()))
			}
		}()
		fn()
	}()
}
