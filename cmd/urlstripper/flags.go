package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// GlobalFlags are accepted before the command name.
type GlobalFlags struct {
	ConfigFile       string
	LogLevel         string
	LogFormat        string
	RemovePatterns   string
	FragmentPatterns string
	// Set when the pattern flags were given; they then replace the options
	// backend with a static one.
	RemoveSet   bool
	FragmentSet bool
}

func newGlobalFlagSet(f *GlobalFlags, output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("urlstripper", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SetInterspersed(false)

	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error), overrides the config file")
	fs.StringVar(&f.LogFormat, "log-format", "", "Log format (console, json, text), overrides the config file")
	fs.StringVar(&f.RemovePatterns, "remove", "", "Query rules, e.g. \"utm_*,gclid,foo=bar\"; uses a static rule source")
	fs.StringVar(&f.FragmentPatterns, "fragment", "", "Fragment rules, e.g. \":~:text=*\"; uses a static rule source")

	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: urlstripper [global flags] <command> [flags] [args]\n\n")
		fmt.Fprintf(output, "Commands:\n")
		for _, cmd := range commands {
			fmt.Fprintf(output, "  %-8s %s\n", cmd.name, cmd.summary)
		}
		fmt.Fprintf(output, "\nGlobal flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// ParseGlobalFlags parses args up to the command name and returns the
// command name and its own arguments.
func ParseGlobalFlags(args []string, output io.Writer) (GlobalFlags, string, []string, error) {
	var flags GlobalFlags
	fs := newGlobalFlagSet(&flags, output)
	if err := fs.Parse(args); err != nil {
		return flags, "", nil, err
	}
	flags.RemoveSet = fs.Changed("remove")
	flags.FragmentSet = fs.Changed("fragment")

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return flags, "", nil, errMissingCommand
	}
	return flags, rest[0], rest[1:], nil
}
