package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Version returns a `version` command to be added to any cobra (root) command.
func Version(name string) *cobra.Command {
	short := "Print " + name + " version"
	if strings.TrimSpace(name) == "" {
		short = "Print version"
	}

	return &cobra.Command{
		Use:                   "version",
		Short:                 short,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			b := readBuild()

			prefix := "version: "
			if strings.TrimSpace(name) != "" {
				prefix = name + " " + prefix
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s%s from %s (%s)\n", prefix, b.revision, b.timestamp, b.goVersion)
		},
	}
}

type build struct {
	revision  string
	timestamp string
	goVersion string
}

// readBuild returns the last commit hash and commit timestamp the binary is built from.
// The information is only available to `go build`, `go run` and `go test` leave it empty,
// in which case the module version and the current time are used.
func readBuild() build {
	b := build{goVersion: runtime.Version()}

	var modified bool

	if info, ok := debug.ReadBuildInfo(); ok {
		b.goVersion = info.GoVersion

		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				b.revision = setting.Value
			case "vcs.time":
				b.timestamp = setting.Value
			case "vcs.modified":
				modified = setting.Value == "true"
			}
		}

		if b.revision == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			b.revision = info.Main.Version
		}
	}

	if modified || b.revision == "" {
		b.revision = "@latest"
		b.timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return b
}
