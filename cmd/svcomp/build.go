package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arggh/svcomp"
	"github.com/arggh/svcomp/lib/build"
	"github.com/arggh/svcomp/lib/cache"
	"github.com/arggh/svcomp/lib/style"
	"github.com/arggh/svcomp/lib/svelte"
	"github.com/arggh/svcomp/lib/transpile"
)

var errDiagnostics = errors.New("build failed with diagnostics")

var buildCmd = &cobra.Command{
	Use:   "build [patterns]",
	Short: "Compile components and pages",
	Long: `Compile every component and page file matched by the patterns
(default ./...) and write the results to the output directory.

Examples:
  svcomp build                        Build everything below the current directory
  svcomp build ./components/...       Build one tree
  svcomp build --arch os.linux.x86_64 Build server-side rendering code
  svcomp build --dry-run ./...        Show what would be written`,
	RunE: runBuild,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return build.New(svcomp.NewRegistry(), build.Options{
			Out:    out,
			DryRun: dryRun,
			Log:    cmd.OutOrStdout(),
		}).Clean()
	},
}

func init() {
	buildCmd.Flags().String("arch", "web.browser", "target architecture (web.browser, os.linux.x86_64, client, server)")
	buildCmd.Flags().Bool("hydratable", false, "make client components hydratable")
	buildCmd.Flags().Bool("css", true, "inject component CSS into client code")
	buildCmd.Flags().Int("jobs", 0, "maximum concurrent compiles (0 = unlimited)")
	buildCmd.Flags().String("cache-dir", "", "persistent cache directory (default $SVCOMP_CACHE_DIR)")
	buildCmd.Flags().Int("cache-size", cache.DefaultMaxBytes, "in-memory cache size in bytes")
	buildCmd.Flags().Bool("dry-run", false, "show what would be written without writing files")
	buildCmd.Flags().String("compiler", "", "component compiler helper command (default: embedded node helper)")
	buildCmd.Flags().Bool("verbose", false, "log cache activity to stderr")

	cleanCmd.Flags().Bool("dry-run", false, "show what would be removed")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	flags := cmd.Flags()
	out, _ := flags.GetString("out")
	arch, _ := flags.GetString("arch")
	hydratable, _ := flags.GetBool("hydratable")
	css, _ := flags.GetBool("css")
	jobs, _ := flags.GetInt("jobs")
	cacheDir, _ := flags.GetString("cache-dir")
	cacheSize, _ := flags.GetInt("cache-size")
	dryRun, _ := flags.GetBool("dry-run")
	compilerCmd, _ := flags.GetString("compiler")
	verbose, _ := flags.GetBool("verbose")

	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}

	opts := svcomp.DefaultOptions()
	opts.Hydratable = hydratable
	opts.CSS = css
	opts.Dev = cfg.Dev

	logger := log.New(os.Stderr, "svcomp: ", 0)
	compilerOpts := []svcomp.Option{
		svcomp.WithOptions(opts),
		svcomp.WithStyle(style.DiscoverPreprocessor(".")),
		svcomp.WithCacheSize(cacheSize),
	}
	if verbose {
		compilerOpts = append(compilerOpts, svcomp.WithLogger(logger))
	}

	store, err := openStore(cfg, cacheDir)
	if err != nil {
		return err
	}
	if store != nil {
		compilerOpts = append(compilerOpts, svcomp.WithStore(store, []byte(cfg.CacheKey)))
	}

	c, err := svcomp.NewCompiler(
		&svelte.Process{Command: strings.Fields(compilerCmd)},
		transpile.Esbuild{},
		compilerOpts...,
	)
	if err != nil {
		return err
	}

	reg := svcomp.NewRegistry()
	reg.Add(c, "html", "svelte")

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	report, err := build.New(reg, build.Options{
		Out:    out,
		Arch:   arch,
		Jobs:   jobs,
		DryRun: dryRun,
		Log:    cmd.OutOrStdout(),
	}).Build(cmd.Context(), patterns...)
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)
	printSummary(cmd.OutOrStdout(), report)
	if report.Failed() {
		return errDiagnostics
	}
	return nil
}

// openStore picks the persistent cache level: S3 when an endpoint is
// configured, else the cache directory, else none.
func openStore(cfg config, cacheDir string) (cache.Store, error) {
	if cfg.S3.Endpoint != "" {
		s, err := cache.NewS3Store(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 cache: %w", err)
		}
		return s, nil
	}
	if cacheDir != "" {
		s, err := cache.OpenDiskStore(cache.DiskConfig{Dir: cacheDir, MaxBytes: cfg.CacheMaxBytes})
		if err != nil {
			return nil, fmt.Errorf("disk cache: %w", err)
		}
		return s, nil
	}
	return nil, nil
}
