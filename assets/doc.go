// Package assets loads theme and layout documents by name.
//
// Themes live in themes/<name>.theme.{json,yaml,yml} and layouts in
// layouts/<name>.layout.{json,yaml,yml}, either embedded in the binary or
// under a directory on disk. A Resolver tries its directories in order
// and falls back to the embedded set.
package assets
