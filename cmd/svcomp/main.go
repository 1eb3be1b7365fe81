package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "svcomp",
	Short: "Compile single-file components with end-to-end source maps",
	Long: `svcomp compiles component files (.html, .svelte) into JavaScript with
source maps pointing at the original files. HTML files whose top level holds
<head> or <body> elements are assembled into index.html instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("color")
		return setupColor(mode, os.Stdout)
	},
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("out", "dist", "output directory")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
