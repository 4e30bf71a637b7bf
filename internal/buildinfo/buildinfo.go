// Package buildinfo carries version metadata set at link time:
//
//	go build -ldflags "-X github.com/fastestraces/fastestraces/internal/buildinfo.Version=v0.3.0"
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return fmt.Sprintf("fastestraces %s (commit=%s, date=%s, %s %s/%s)",
		v, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
