package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lvillar/resumepdf"
)

const dirPermissions = 0o750

// batchResult is the outcome of one profile.
type batchResult struct {
	input    string
	output   string
	pages    int
	warnings int
	err      error
	duration time.Duration
}

func (c *CLI) batchCommand() *cobra.Command {
	var (
		opts    generateOptions
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Generate a PDF for every profile in a directory",
		Long: `Generate a PDF for every .json, .yaml and .yml profile in DIR.

Profiles are generated concurrently; one failure does not stop the others.
The command fails if any profile failed.`,
		Example: `  resumepdf batch profiles/ -o out/ --workers 8 --theme midnight`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.rtlSet = cmd.Flags().Changed("rtl")
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Batch.Workers
			}
			if outDir == "" {
				outDir = args[0]
			}
			return c.runBatch(cmd.Context(), cmd.OutOrStdout(), args[0], outDir, workers, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default DIR)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent generations (default from config)")

	return cmd
}

// profileFiles lists the profile documents directly inside dir, sorted.
func profileFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (c *CLI) runBatch(ctx context.Context, w io.Writer, dir, outDir string, workers int, opts generateOptions) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	files, err := profileFiles(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadProfile, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoProfiles, dir)
	}
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	gen, err := c.generator()
	if err != nil {
		return err
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = batchResult{input: f, err: err}
				return err
			}
			results[i] = c.generateFile(gctx, gen, f, outDir, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			printError(w, "%s: %v", r.input, r.err)
			continue
		}
		printSuccess(w, "%s (%d pages, %s)", r.output, r.pages, r.duration.Round(time.Millisecond))
		if r.warnings > 0 {
			printDetail(w, "%d warnings", r.warnings)
		}
	}
	prog.done(fmt.Sprintf("Generated %d of %d resumes", len(files)-failed, len(files)))

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(files))
	}
	return nil
}

func (c *CLI) generateFile(ctx context.Context, gen *resumepdf.Generator, input, outDir string, opts generateOptions) (r batchResult) {
	start := time.Now()
	r = batchResult{input: input, output: filepath.Join(outDir, outputPath(input))}
	defer func() { r.duration = time.Since(start) }()

	prof, err := readProfile(input, nil)
	if err != nil {
		r.err = err
		return r
	}
	req, err := opts.request(prof)
	if err != nil {
		r.err = err
		return r
	}
	res, err := gen.Generate(ctx, req)
	if err != nil {
		r.err = err
		return r
	}
	if err := os.WriteFile(r.output, res.PDF, filePermissions); err != nil {
		r.err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		return r
	}
	for _, warn := range res.Warnings {
		loggerFromContext(ctx).Warn(warn, "profile", input)
	}
	r.pages, r.warnings = res.Pages, len(res.Warnings)
	return r
}
