package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/generator"
	"github.com/origadmin/buildergen/internal/model"
)

// options are the command line flags. Empty values leave lower layers alone.
type options struct {
	types        []string
	output       string
	schema       string
	configFile   string
	templates    string
	suffix       string
	setterPrefix string
	factory      string
	factoryStyle string
	missing      string
	stdout       bool
	debug        bool
	logFile      string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.types, "type", "t", nil, "Record type to generate a builder for (repeatable, comma separated)")
	fs.StringVarP(&o.output, "output", "o", "", "Output file name. Defaults to <package>_builder.gen.go")
	fs.StringVar(&o.schema, "schema", "", "Read records from a YAML or HCL schema instead of Go source")
	fs.StringVar(&o.configFile, "config", "", "Configuration file. Defaults to "+config.DefaultConfigFile+" in the source directory")
	fs.StringVar(&o.templates, "templates", "", "Template file or directory overriding the built-in templates")
	fs.StringVar(&o.suffix, "suffix", "", "Builder type name suffix (default \"Builder\")")
	fs.StringVar(&o.setterPrefix, "setter-prefix", "", "Prefix for setter names, e.g. With")
	fs.StringVar(&o.factory, "factory", "", "Factory method name (default \"Builder\")")
	fs.StringVar(&o.factoryStyle, "factory-style", "", "Factory style: method or func (default \"method\")")
	fs.StringVar(&o.missing, "missing", "", "Missing field report: first or all (default \"first\")")
	fs.BoolVar(&o.stdout, "stdout", false, "Print the generated file instead of writing it")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.logFile, "log-file", "", "Path to a file where logs should be written. If empty, logs go to stderr.")
}

func (o *options) overrides() *config.Config {
	return &config.Config{
		Types:     o.types,
		Output:    o.output,
		Templates: o.templates,
		NamingRules: config.NamingRules{
			BuilderSuffix: o.suffix,
			SetterPrefix:  o.setterPrefix,
			FactoryName:   o.factory,
			FactoryStyle:  config.FactoryStyle(o.factoryStyle),
		},
		BehaviorRules: config.BehaviorRules{
			Missing: config.MissingPolicy(o.missing),
		},
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   config.Application + " [flags] [dir]",
		Short: config.Description,
		Long: `buildergen reads struct declarations, from the Go package in dir or from a
schema file, and writes a builder per struct: a factory on the struct, one
chainable setter per field and a Build method that fails when a field was
never set.

Structs are selected with //go:buildergen:builder directives, the config file
or --type.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(cmd.ErrOrStderr(), o.logFile, o.debug)
			if err != nil {
				return err
			}
			defer closeLog()
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return run(cmd.OutOrStdout(), o, dir)
		},
	}
	o.bind(cmd.Flags())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func setupLogging(stderr io.Writer, logFile string, debug bool) (func(), error) {
	w, closeLog := stderr, func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		w, closeLog = f, func() { _ = f.Close() }
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeLog, nil
}

func run(stdout io.Writer, o *options, dir string) error {
	slog.Info("Starting buildergen", "dir", dir)
	base := config.NewConfig()
	file, err := loadConfigFile(o.configFile, dir)
	if err != nil {
		return err
	}
	if err := base.Merge(file); err != nil {
		return err
	}

	schemaPath := o.schema
	if schemaPath == "" && base.Schema != "" {
		schemaPath = base.Schema
		if !filepath.IsAbs(schemaPath) {
			schemaPath = filepath.Join(dir, schemaPath)
		}
	}

	gen := generator.NewGenerator(base, o.overrides())
	var resp *model.GenerationResponse
	if schemaPath != "" {
		resp, err = gen.FromSchema(schemaPath)
	} else {
		resp, err = gen.FromPackage(dir)
	}
	if err != nil {
		return err
	}
	if o.stdout {
		_, err := stdout.Write(resp.Code)
		return err
	}
	return generator.Write(resp)
}

func loadConfigFile(path, dir string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadDefaultFile(dir)
}
