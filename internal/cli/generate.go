package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/layout"
)

// Sentinel errors for input handling.
var (
	ErrNoProfiles  = errors.New("no profile files found")
	ErrReadProfile = errors.New("failed to read profile")
	ErrReadLayout  = errors.New("failed to read layout")
	ErrWritePDF    = errors.New("failed to write PDF")
)

const filePermissions = 0o644

// generateOptions are the request knobs shared by generate and batch.
type generateOptions struct {
	layoutFile string
	layoutName string
	theme      string
	uiLang     string
	rtl        bool
	rtlSet     bool
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.layoutFile, "layout", "", "layout document file (JSON or YAML)")
	f.StringVar(&o.layoutName, "layout-name", "", "layout by name (see 'resumepdf layouts')")
	f.StringVar(&o.theme, "theme", "", "theme by name (see 'resumepdf themes')")
	f.StringVar(&o.uiLang, "ui-lang", "", "heading language: en, de or ar")
	f.BoolVar(&o.rtl, "rtl", false, "force right-to-left alignment")
	cmd.MarkFlagsMutuallyExclusive("layout", "layout-name")
}

// request builds a Request for profile. The layout file is read once per
// call so batch workers never share a Document.
func (o generateOptions) request(prof map[string]any) (resumepdf.Request, error) {
	req := resumepdf.Request{
		Profile:    prof,
		ThemeName:  o.theme,
		LayoutName: o.layoutName,
		UILang:     o.uiLang,
	}
	if o.rtlSet {
		rtl := o.rtl
		req.RTLMode = &rtl
	}
	if o.layoutFile != "" {
		data, err := os.ReadFile(o.layoutFile)
		if err != nil {
			return req, fmt.Errorf("%w: %v", ErrReadLayout, err)
		}
		doc, err := layout.Parse(data)
		if err != nil {
			return req, fmt.Errorf("%w: %s: %v", ErrReadLayout, o.layoutFile, err)
		}
		req.Layout = doc
	}
	return req, nil
}

// readProfile reads a JSON or YAML profile from path, or stdin for "-".
func readProfile(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProfile, err)
	}
	prof, err := assets.DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadProfile, path, err)
	}
	return prof, nil
}

// outputPath derives "<stem>.pdf" from a profile path.
func outputPath(profilePath string) string {
	if profilePath == "-" {
		return "resume.pdf"
	}
	base := filepath.Base(profilePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts   generateOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate PROFILE",
		Short: "Generate a resume PDF from a profile file",
		Long: `Generate a resume PDF from a profile file (JSON or YAML, "-" for stdin).

The layout comes from --layout (a file) or --layout-name, merged over the
layout embedded in the theme.`,
		Example: `  resumepdf generate jane.json --theme aqua-card -o jane.pdf
  resumepdf generate jane.yaml --layout-name two-column --ui-lang de`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.rtlSet = cmd.Flags().Changed("rtl")
			if output == "" {
				output = outputPath(args[0])
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), args[0], output, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, '-' for stdout (default <profile>.pdf)")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, w io.Writer, profilePath, output string, opts generateOptions) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	prof, err := readProfile(profilePath, c.stdin)
	if err != nil {
		return err
	}
	req, err := opts.request(prof)
	if err != nil {
		return err
	}
	gen, err := c.generator()
	if err != nil {
		return err
	}
	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := w.Write(res.PDF)
		return err
	}
	if err := os.WriteFile(output, res.PDF, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	prog.done("Generated " + output)

	printSuccess(w, "Resume generated (%d pages, %d bytes)", res.Pages, len(res.PDF))
	printFile(w, output)
	for _, warn := range res.Warnings {
		printWarning(w, "%s", warn)
	}
	return nil
}
