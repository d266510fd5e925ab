// Package resumepdf generates resume PDFs from a profile, a layout and a
// theme.
//
// A profile is loosely typed input (usually decoded JSON) describing a
// person: header, contact, summary, skills, languages, projects, education
// and an optional photo. A layout places named blocks into page columns;
// a theme sets colours, fonts, sizes and spacing and may carry a default
// layout. Generation normalises the profile, maps it to per-block data,
// lays the blocks out page by page and returns the PDF bytes.
//
// Basic usage:
//
//	g := resumepdf.New()
//	res, err := g.Generate(ctx, resumepdf.Request{
//	    Profile:    profile,
//	    ThemeName:  "aqua-card",
//	    LayoutName: "two-column",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("resume.pdf", res.PDF, 0o644)
//
// Blocks are resolved through a block.Registry; register custom
// renderers with WithRegistry. Warnings (unregistered blocks, failing
// mapper rules, unavailable fonts) never fail a build and are returned in
// Result.Warnings.
package resumepdf
