package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arggh/svcomp"
	"github.com/arggh/svcomp/lib/build"
)

var (
	pathColor    = color.New(color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	frameColor   = color.New(color.FgHiBlack)

	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "svcomp version %s\n", coloredVersion(version))
	},
}

func setupColor(mode string, out *os.File) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !term.IsTerminal(int(out.Fd()))
	default:
		return fmt.Errorf("invalid --color %q (auto|on|off)", mode)
	}
	return nil
}

func coloredVersion(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return v
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
}

// printDiagnostics writes one block per diagnostic: a located header line
// followed by the message, whose "| " frame lines are dimmed.
func printDiagnostics(w io.Writer, diags []svcomp.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s %s\n",
			pathColor.Sprintf("%s:%d:%d:", d.Path, d.Line, d.Column),
			errorColor.Sprint("error:"))
		for _, line := range strings.Split(d.Message, "\n") {
			if strings.HasPrefix(line, "| ") {
				fmt.Fprintf(w, "  %s\n", frameColor.Sprint(line))
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func printSummary(w io.Writer, r *build.Report) {
	if r.Failed() {
		fmt.Fprintf(w, "%s %d files, %d artifacts, %d errors\n",
			errorColor.Sprint("FAIL"), r.Files, len(r.Artifacts), len(r.Diagnostics))
		return
	}
	fmt.Fprintf(w, "%s %d files, %d artifacts\n",
		successColor.Sprint("ok"), r.Files, len(r.Artifacts))
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}
