package global

import (
	"fmt"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
)

// Dump pretty prints values with the caller position, used by the seed command's --dump flag.
func Dump(a ...any) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Printf("\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.P(a...)
}
