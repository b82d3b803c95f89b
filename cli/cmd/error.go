package cmd

import "github.com/ardnew/rptkit/pkg"

var (
	ErrJSONMarshal = pkg.NewError("marshal JSON")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrReadInput   = pkg.NewError("read input")
	ErrWriteOutput = pkg.NewError("write output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrAssignment  = pkg.NewError("invalid assignment (want name=value)")
	ErrNotFound    = pkg.NewError("no match")
	ErrAmbiguous   = pkg.NewError("ambiguous reference")
	ErrInvalid     = pkg.NewError("invalid formula")
	ErrFormat      = pkg.NewError("unsupported output format")
)
