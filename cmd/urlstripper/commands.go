package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/document"
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/aleister1102/urlstripper/internal/report"
	"github.com/aleister1102/urlstripper/internal/rules"
	"github.com/aleister1102/urlstripper/internal/server"
	"github.com/aleister1102/urlstripper/internal/urlhandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"strip", "Strip tracking parameters from URLs (args, --file or stdin)", runStrip},
	{"text", "Rewrite href attributes in text or HTML files", runText},
	{"json", "Rewrite every string of JSON documents", runJSON},
	{"links", "Audit the links of HTML documents", runLinks},
	{"rules", "Show the active rules, or store new ones with 'rules set'", runRules},
	{"serve", "Run the HTTP API", runServe},
}

func findCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func (a *app) newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: urlstripper %s [flags] %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

type stripOutput struct {
	Input           string   `json:"input"`
	Output          string   `json:"output"`
	RemovedParams   []string `json:"removed_params,omitempty"`
	FragmentCleared bool     `json:"fragment_cleared,omitempty"`
	Changed         bool     `json:"changed"`
}

func runStrip(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("strip", "[url...]")
	file := fs.StringP("file", "f", "", "Path to a text file with one URL per line")
	asJSON := fs.Bool("json", false, "Print one JSON object per URL with the removed parameters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	urls := fs.Args()
	switch {
	case *file != "":
		fromFile, err := urlhandler.ReadURLsFromFile(*file, a.logger)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	case len(urls) == 0:
		fromStdin, err := urlhandler.ReadURLs(a.stdin, a.logger)
		if err != nil {
			return err
		}
		urls = fromStdin
	}

	w := bufio.NewWriter(a.stdout)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, raw := range urls {
		if ctx.Err() != nil {
			break
		}
		if !*asJSON {
			fmt.Fprintln(w, a.stripper.StripURL(raw))
			continue
		}
		res := a.stripper.StripURLResult(raw)
		if err := enc.Encode(stripOutput{
			Input:           res.Input,
			Output:          res.Output,
			RemovedParams:   res.Removed,
			FragmentCleared: res.FragmentCleared,
			Changed:         res.Changed,
		}); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return ctx.Err()
}

func runText(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("text", "[file...]")
	opts := transformOptions{}
	fs.BoolVar(&opts.Diff, "diff", false, "Print a line diff instead of the rewritten text")
	fs.BoolVarP(&opts.InPlace, "write", "w", false, "Rewrite the files in place")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.transformInputs(ctx, fs.Args(), opts, func(input []byte) ([]byte, error) {
		return []byte(a.stripper.SanitizeText(string(input))), nil
	})
}

func runJSON(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("json", "[file...]")
	opts := transformOptions{}
	indent := fs.String("indent", "", "Indent the output with this string; compact when empty")
	fs.BoolVar(&opts.Diff, "diff", false, "Print a line diff instead of the rewritten document")
	fs.BoolVarP(&opts.InPlace, "write", "w", false, "Rewrite the files in place")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.transformInputs(ctx, fs.Args(), opts, func(input []byte) ([]byte, error) {
		doc, err := document.ParseJSON(input)
		if err != nil {
			return nil, err
		}
		sanitized := a.stripper.SanitizeMixed(doc)

		var out []byte
		if *indent != "" {
			out, err = document.EncodeJSONIndent(sanitized, *indent)
		} else {
			out, err = document.EncodeJSON(sanitized)
		}
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	})
}

type linksOutput struct {
	Source  string               `json:"source"`
	Summary report.LinkSummary   `json:"summary"`
	Links   []report.LinkFinding `json:"links"`
}

func runLinks(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("links", "[file...]")
	changedOnly := fs.Bool("changed-only", false, "List only the links that would change")
	if err := fs.Parse(args); err != nil {
		return err
	}

	auditor := report.NewLinkAuditor(a.stripper, a.logger)
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return a.forEachInput(ctx, fs.Args(), func(source string, content []byte) error {
		findings, err := auditor.Audit(content, *changedOnly)
		if err != nil {
			return err
		}
		return enc.Encode(linksOutput{
			Source:  source,
			Summary: report.Summarize(findings),
			Links:   findings,
		})
	})
}

func runRules(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 && args[0] == "set" {
		return runRulesSet(ctx, a, args[1:])
	}

	fs := a.newFlagSet("rules", "[show | set]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 && fs.Arg(0) != "show" {
		return common.NewValidationError("rules", fs.Arg(0), "unknown subcommand, expected show or set")
	}

	rawQuery := a.provider.GetString(options.QueryRulesKey, options.DefaultQueryRules)
	rawFragment := a.provider.GetString(options.FragmentRulesKey, options.DefaultFragmentRules)
	rs := rules.Parse(rawQuery, rawFragment)

	w := bufio.NewWriter(a.stdout)
	fmt.Fprintf(w, "%s: %s\n", options.QueryRulesKey, rawQuery)
	fmt.Fprintf(w, "%s: %s\n", options.FragmentRulesKey, rawFragment)
	fmt.Fprintf(w, "query rules:\n")
	for _, r := range rs.Query {
		pattern := r.Key
		if r.Kind == rules.ExactKeyValue {
			pattern = r.Key + "=" + r.Value
		}
		fmt.Fprintf(w, "  %-16s %s\n", r.Kind, pattern)
	}
	fmt.Fprintf(w, "fragment rules:\n")
	for _, r := range rs.Fragment {
		fmt.Fprintf(w, "  %s\n", r.Pattern)
	}
	if ignored := ignoredTokens(rawQuery, rs); len(ignored) > 0 {
		fmt.Fprintf(w, "ignored: %s\n", strings.Join(ignored, ", "))
	}
	return w.Flush()
}

// ignoredTokens lists query rule tokens that did not parse into a rule.
func ignoredTokens(rawQuery string, rs rules.RuleSet) []string {
	kept := make(map[string]struct{}, len(rs.Query))
	for _, r := range rs.Query {
		if r.Kind == rules.ExactKeyValue {
			kept[r.Key+"="+r.Value] = struct{}{}
		} else {
			kept[r.Key] = struct{}{}
		}
	}
	var ignored []string
	for _, token := range rules.Tokenize(rawQuery) {
		if _, ok := kept[token]; !ok {
			ignored = append(ignored, token)
		}
	}
	return ignored
}

func runRulesSet(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("rules set", "")
	removePatterns := fs.String("remove-patterns", "", "Comma-separated query rules to store")
	fragmentPatterns := fs.String("fragment-patterns", "", "Comma-separated fragment rules to store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	writer, ok := a.provider.(options.Writer)
	if !ok {
		return common.WrapError(common.ErrReadOnlyOptions, "backend '"+a.cfg.OptionsConfig.Backend+"'")
	}
	if !fs.Changed("remove-patterns") && !fs.Changed("fragment-patterns") {
		return common.NewValidationError("rules set", "", "--remove-patterns or --fragment-patterns is required")
	}

	if fs.Changed("remove-patterns") {
		if err := writer.SetString(ctx, options.QueryRulesKey, *removePatterns); err != nil {
			return err
		}
	}
	if fs.Changed("fragment-patterns") {
		if err := writer.SetString(ctx, options.FragmentRulesKey, *fragmentPatterns); err != nil {
			return err
		}
	}
	return runRules(ctx, a, nil)
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("serve", "")
	listen := fs.String("listen", "", "Address to listen on, overrides server_config.listen_address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := a.cfg.ServerConfig
	if *listen != "" {
		cfg.ListenAddress = *listen
	}

	var gatherer prometheus.Gatherer
	if cfg.EnableMetrics {
		gatherer = a.registry
	}
	router := server.NewRouter(
		server.NewStripHandler(a.stripper, a.logger),
		server.NewRulesHandler(a.provider, a.logger),
		server.RouterOptions{
			MaxBodyBytes: cfg.MaxBodyBytes,
			Gatherer:     gatherer,
			Logger:       a.logger,
		},
	)
	return server.NewServer(cfg, router, a.logger).Run(ctx)
}
