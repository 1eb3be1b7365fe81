// Package svcomp compiles single-file UI components into program code with a
// source map that points from the emitted code straight back to the authored
// file.
//
// # Pipeline
//
// Each input file runs through a fixed sequence of stages:
//
//	classify -> style preprocess -> component compile -> transpile -> compose maps
//
// Files with the .html extension are classified first. A file whose top level
// contains a <head> or <body> element is not a component: the inner markup of
// those elements is returned as markup sections for the host page, and no
// later stage runs. Every other file is a component.
//
// Components have their <style> blocks rewritten by a style.Preprocessor, are
// compiled by a ComponentCompiler into code for the target architecture, and
// are lowered by a Transpiler. The two source maps the compiler and the
// transpiler produce are composed into one that maps final code to the
// original file:
//
//	c, err := svcomp.NewCompiler(&svelte.Process{}, transpile.Esbuild{},
//	    svcomp.WithStyle(style.DiscoverPreprocessor(".")),
//	)
//	if err := c.CompileFile(ctx, file); err != nil {
//	    // fatal: not a problem in the user's source
//	}
//
// # Caching
//
// Results are cached in memory under a key made of the compiler options, the
// file's package path, its content hash, the target architecture and the
// fingerprints of the configured stages (the style.toml in use, the
// transpile target, the compiler helper). The
// cache is bounded by the total size of cached results (10 MiB by default)
// and evicts least recently used entries first. WithStore adds a persistent
// second level (disk or S3) whose entries are signed so corrupt or foreign
// entries are ignored.
//
// # Errors
//
// Errors that carry a source position (PositionedError) are problems in the
// user's file. They are reported through InputFile.Error as a Diagnostic and
// the build continues. Any other error is fatal and is returned unchanged.
package svcomp
