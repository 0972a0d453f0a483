// Package cmd implements the command-line entry points spec.md names no
// driver for, authored from scratch: the teacher's cmd/1D.go and
// cmd/2D.go both call `rootCmd.AddCommand(...)` in their init()
// functions, but rootCmd itself is never defined anywhere in the
// retrieved teacher repo. This file supplies the missing root, in the
// same spf13/cobra idiom the teacher's subcommands already assume, and
// adds the `--profile` flag the teacher's go.mod carries
// (github.com/pkg/profile) with no retrieved call site.
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var profileMode string

var rootCmd = &cobra.Command{
	Use:   "flurry",
	Short: "flurry is a flux-reconstruction CFD solver",
}

// Execute runs the root command, the entry point main.go calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "enable profiling: cpu, mem, or empty to disable")
}

// startProfile begins a pkg/profile session for the mode named by
// --profile, returning a stop function that is always safe to defer
// (a no-op when profiling is disabled).
func startProfile() func() {
	switch profileMode {
	case "cpu":
		return profile.Start(profile.CPUProfile).Stop
	case "mem":
		return profile.Start(profile.MemProfile).Stop
	default:
		return func() {}
	}
}
