package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "iqgame", displayVersion(version))
	},
}

// displayVersion normalizes a release tag to canonical semver and falls
// back to the module version recorded by `go install`.
func displayVersion(v string) string {
	if v == "(devel)" {
		if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
			v = info.Main.Version
		}
	}
	if len(v) > 0 && v[0] != 'v' && semver.IsValid("v"+v) {
		v = "v" + v
	}
	if semver.IsValid(v) {
		// Canonical drops +build metadata; keep it.
		return semver.Canonical(v) + semver.Build(v)
	}
	return v
}
