package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is injected through SetVersion by cmd/codecleaner. "dev" falls
// back to the module version recorded by `go install`.
var version = "dev"

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Long: `Print the codecleaner version, the commit it was built from and the
Go toolchain used to build it.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), readBuildInfo(), versionShort)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version string (called from main.go)
func SetVersion(v string) {
	version = v
}

// GetVersion returns the version, preferring the injected one.
func GetVersion() string {
	return resolveVersion(readBuildInfo())
}

// buildInfo is the subset of debug.BuildInfo shown by the version command.
type buildInfo struct {
	Module   string
	Revision string
	Modified bool
	Go       string
}

func readBuildInfo() buildInfo {
	info := buildInfo{Go: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func resolveVersion(info buildInfo) string {
	if version != "dev" && version != "" {
		return version
	}
	if info.Module != "" && info.Module != "(devel)" {
		return info.Module
	}
	return "dev"
}

func printVersion(w io.Writer, info buildInfo, short bool) {
	v := resolveVersion(info)
	if short {
		fmt.Fprintln(w, v)
		return
	}

	fmt.Fprintf(w, "codecleaner version %s\n", v)
	if info.Revision != "" {
		rev := info.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if info.Modified {
			rev += " (modified)"
		}
		fmt.Fprintf(w, "  commit: %s\n", rev)
	}
	fmt.Fprintf(w, "  go:     %s\n", info.Go)
}
