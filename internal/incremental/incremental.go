// Package incremental implements the timestamp gate that lets a task skip
// files whose output is already up to date. It is an optimization only: every
// uncertain case answers "stale" so an artifact is never left outdated.
package incremental

import (
	"os"
	"time"

	"github.com/vk/assetgrid/internal/fileset"
)

// now is replaced in tests.
var now = time.Now

// Stale reports whether the input must be reprocessed to produce outPath.
// The output is current only when it exists and its modification time is not
// older than the input's.
func Stale(in *fileset.File, outPath string) bool {
	if in == nil || in.ModTime.IsZero() {
		return true
	}
	// An input stamped in the future means the clocks disagree.
	if in.ModTime.After(now()) {
		return true
	}
	info, err := os.Stat(outPath)
	if err != nil || info.IsDir() {
		return true
	}
	return info.ModTime().Before(in.ModTime)
}

// AnyStale reports whether any input is stale against the single target,
// the many-to-one case used for concatenated outputs. An empty input set is
// never stale.
func AnyStale(in fileset.FileSet, target string) bool {
	for _, f := range in {
		if Stale(f, target) {
			return true
		}
	}
	return false
}
