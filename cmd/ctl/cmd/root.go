package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/greygrid.go/pkg/config"
	"github.com/jpfielding/greygrid.go/pkg/logging"
	"github.com/jpfielding/greygrid.go/pkg/transform"
	"github.com/spf13/cobra"
)

// logSink owns the optional --log-file writer so it can be released however
// the command ends.
type logSink struct {
	file io.WriteCloser
}

func (s *logSink) open(path string) io.Writer {
	s.Close()
	s.file = logging.RotatingFile(path)
	return s.file
}

func (s *logSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Execute runs the root command and closes the log file afterwards, also when
// the command fails.
func Execute(ctx context.Context, gitsha string) error {
	sink := &logSink{}
	return executeWith(newRoot(ctx, gitsha, sink), sink)
}

func executeWith(root *cobra.Command, sink *logSink) error {
	defer sink.Close()
	return root.Execute()
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	return newRoot(ctx, gitsha, &logSink{})
}

func newRoot(ctx context.Context, gitsha string, sink *logSink) *cobra.Command {
	defaults, envErr := config.FromEnv(os.Getenv)
	if envErr != nil {
		defaults = config.Default()
	}

	cmd := &cobra.Command{
		Use:   "greyctl <image.pgm> <operation>",
		Short: "parallel greyscale pgm transforms",
		Long:  "Reads a square greyscale ASCII pgm and applies one operation using a pool of workers:\n" + opsHelp(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("call with the name of the image file to read, and a single digit for the operation to perform")
			}
			_, err := transform.ParseOp(args[1])
			return err
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logPath, _ := cmd.Flags().GetString("log-file")

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}
			var out io.Writer = os.Stdout
			if logPath != "" {
				out = io.MultiWriter(os.Stdout, sink.open(logPath))
			}
			slog.SetDefault(logging.Logger(out, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			if envErr != nil {
				slog.WarnContext(ctx, "Ignoring environment configuration", "error", envErr)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			sink.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			op, _ := transform.ParseOp(args[1])
			cfg := *defaults
			cfg.Workers, _ = cmd.Flags().GetInt("workers")
			cfg.OutDir, _ = cmd.Flags().GetString("out-dir")
			cfg.Aggregation, _ = cmd.Flags().GetString("aggregation")
			cfg.EdgeSchedule, _ = cmd.Flags().GetString("edge-schedule")
			cfg.Preview, _ = cmd.Flags().GetString("preview")
			cfg.PreviewScale, _ = cmd.Flags().GetInt("preview-scale")
			if err := cfg.Validate(); err != nil {
				return err
			}
			// arguments are fine from here on; Run logs its own failures
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return Run(ctx, &cfg, args[0], op)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewOpsCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "Log as json")
	pf.String("log-file", "", "Also log to this file, rotated by size")

	f := cmd.Flags()
	f.IntP("workers", "w", defaults.Workers, "number of parallel workers (env "+config.EnvWorkers+")")
	f.StringP("out-dir", "o", defaults.OutDir, "directory for the output files (env "+config.EnvOutDir+")")
	f.String("aggregation", defaults.Aggregation, "histogram aggregation: partial|atomic (env "+config.EnvAggregation+")")
	f.String("edge-schedule", defaults.EdgeSchedule, "edge scratch pass: two-phase|checkerboard (env "+config.EnvEdgeSchedule+")")
	f.String("preview", "", "also render an image result to this png/jpg/webp file")
	f.Int("preview-scale", defaults.PreviewScale, "integer upscale factor for --preview")
	return cmd
}

func opsHelp() string {
	var sb strings.Builder
	for _, op := range transform.Ops {
		fmt.Fprintf(&sb, "  (%d) %-9s %s -> %s\n", int(op), op, op.Description(), op.OutputName())
	}
	return sb.String()
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// NewOpsCmd lists the operation selectors
func NewOpsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "list the operations and their output files",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), opsHelp())
		},
	}
	return cmd
}
