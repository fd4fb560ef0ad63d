package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgresize/internal/config"
	"imgresize/internal/policy"
)

// Version is overridden at build time with -ldflags "-X imgresize/cmd.Version=...".
var Version = "dev"

// exitError carries a specific process exit code out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// NewRootCmd builds the imgresize command. The resize run is the root
// command itself; there are no subcommands.
func NewRootCmd() *cobra.Command {
	cfg := config.Defaults()

	cmd := &cobra.Command{
		Use:   "imgresize [flags] <input>",
		Short: "Shrink oversized images in place",
		Long: `imgresize walks a directory tree and shrinks, in place, every image whose
extension is accepted, whose file size is above the threshold, and whose
dimensions exceed the target box. Images are scaled to fit inside the box
with their aspect ratio kept and are written back in their original format.
Originals are not backed up.`,
		Example: `  imgresize -f jpg -f png ~/Pictures/archive
  imgresize -f jpg,jpeg -w 2560 -h 1440 -q 5 -v /srv/photos`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InputDir = args[0]
			return runResize(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringSliceVarP(&cfg.Extensions, "filter", "f", nil, "image extensions to resize, such as png or jpg (repeatable, no leading dot)")
	flags.Uint64VarP(&cfg.MinSize, "size", "s", config.DefaultMinSize, "files at or below this size in bytes are skipped")
	flags.IntVarP(&cfg.Width, "width", "w", config.DefaultWidth, "maximum width in pixels")
	flags.IntVarP(&cfg.Height, "height", "h", config.DefaultHeight, "maximum height in pixels")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log the reason each file is skipped or resized")
	flags.IntVarP(&cfg.Quality, "quality", "q", config.DefaultQuality, qualityUsage())
	flags.IntVarP(&cfg.Workers, "workers", "j", 0, "parallel workers, 0 for one per CPU (env IMGRESIZE_WORKERS)")
	flags.IntVar(&cfg.JPEGQuality, "jpeg-quality", config.DefaultJPEGQuality, "encoder quality for JPEG output, 1-100; higher keeps more detail but saves less space (env IMGRESIZE_JPEG_QUALITY)")
	flags.BoolVar(&cfg.Plain, "plain", false, "print plain progress lines instead of the interactive view (env IMGRESIZE_PLAIN)")
	flags.BoolVar(&cfg.FailOnError, "fail-on-error", false, "exit with status 2 when any file could not be processed")
	_ = cmd.MarkFlagRequired("filter")

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return cmd
}

func qualityUsage() string {
	usage := "resampling quality, higher is better and slower:"
	for q := policy.MinQuality; q <= policy.MaxQuality; q++ {
		algo, _ := policy.AlgorithmFor(q)
		usage += fmt.Sprintf("\n%d - %s", q, algo.Name)
	}
	return usage
}
