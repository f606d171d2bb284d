package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Diff  bool
	Apply bool
	State bool
	Sync  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("DOCSYNC_DEBUG_DIFF")
	d.Apply = boolEnv("DOCSYNC_DEBUG_APPLY")
	d.State = boolEnv("DOCSYNC_DEBUG_STATE")
	d.Sync = boolEnv("DOCSYNC_DEBUG_SYNC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Apply() bool {
	return d.Apply
}
func State() bool {
	return d.State
}
func Sync() bool {
	return d.Sync
}
