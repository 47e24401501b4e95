package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jpfielding/greygrid.go/pkg/config"
	"github.com/jpfielding/greygrid.go/pkg/grid"
	"github.com/jpfielding/greygrid.go/pkg/logging"
	"github.com/jpfielding/greygrid.go/pkg/pgm"
	"github.com/jpfielding/greygrid.go/pkg/preview"
	"github.com/jpfielding/greygrid.go/pkg/transform"
	"github.com/jpfielding/greygrid.go/pkg/util"
)

// Run loads the image at path, applies op and writes the result into
// cfg.OutDir. Input problems are returned before anything is written; a failed
// write is logged and skipped since nothing else depends on it.
func Run(ctx context.Context, cfg *config.Config, path string, op transform.Op) error {
	ctx = logging.AppendCtx(ctx, slog.String("run", util.RunID()))
	ec, err := cfg.Engine()
	if err != nil {
		slog.ErrorContext(ctx, "invalid configuration", "error", err)
		return err
	}

	img, err := pgm.ReadFile(path)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load image", "error", err)
		return err
	}
	lo, hi := img.MinMax()
	slog.InfoContext(ctx, "loaded image",
		"file", path,
		"size", fmt.Sprintf("%dx%d", img.Size(), img.Size()),
		"max", grid.MaxValue,
		"range", fmt.Sprintf("%d..%d", lo, hi),
		"fingerprint", util.GridFingerprint(img),
	)

	ec.Logger = slog.Default()
	engine := transform.New(ec)
	slog.InfoContext(ctx, "performing operation",
		"op", op.String(),
		"option", int(op),
		"workers", engine.Workers(),
	)
	hist, err := engine.Apply(op, img)
	if err != nil {
		slog.ErrorContext(ctx, "operation failed", "error", err)
		return err
	}

	out := filepath.Join(cfg.OutDir, op.OutputName())
	if hist != nil {
		if err := pgm.WriteHistogramFile(out, hist); err != nil {
			slog.ErrorContext(ctx, "failed to save histogram", "error", err)
			return nil
		}
		slog.InfoContext(ctx, "saved greyscale histogram", "file", out, "samples", hist.Total())
		return nil
	}

	if err := pgm.WriteFile(out, img); err != nil {
		slog.ErrorContext(ctx, "failed to save image", "error", err)
	} else {
		slog.InfoContext(ctx, "saved image", "file", out, "fingerprint", util.GridFingerprint(img))
	}
	if cfg.Preview != "" {
		if err := preview.Save(cfg.Preview, img, cfg.PreviewScale); err != nil {
			slog.ErrorContext(ctx, "failed to save preview", "error", err)
		} else {
			slog.InfoContext(ctx, "saved preview", "file", cfg.Preview, "scale", cfg.PreviewScale)
		}
	}
	return nil
}
