// Command multimarkdown converts MultiMarkdown source into HTML, LaTeX, or
// an OPML header outline.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fletcher/MultiMarkdown-6-sub000/mmd"
)

var fs = afero.NewOsFs()

type options struct {
	to            string
	output        string
	batch         bool
	batchStrict   bool
	full          bool
	snippet       bool
	compatibility bool
	accept        bool
	reject        bool
	noSmart       bool
	noLabels      bool
	noTransclude  bool
	random        bool
	unique        bool
	language      string
	listMeta      bool
	extractMeta   string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("multimarkdown: ")

	var o options
	root := &cobra.Command{
		Use:   "multimarkdown [files...]",
		Short: "Convert MultiMarkdown source to HTML, LaTeX, or OPML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, args)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&o.to, "to", "t", "html", "output format: html, latex, opml")
	flags.StringVarP(&o.output, "output", "o", "", "output file (default: stdout, or <input>.<ext> in batch mode)")
	flags.BoolVarP(&o.batch, "batch", "b", false, "treat every argument as a separate document")
	flags.BoolVar(&o.batchStrict, "batch-strict", false, "in batch mode, stop at the first file that fails to convert")
	flags.BoolVarP(&o.full, "full", "f", false, "force a complete, standalone document")
	flags.BoolVarP(&o.snippet, "snippet", "s", false, "force a bare fragment, even if metadata would otherwise complete it")
	flags.BoolVarP(&o.compatibility, "compatibility", "c", false, "enable classic Markdown compatibility mode")
	flags.BoolVarP(&o.accept, "accept", "a", false, "accept all CriticMarkup edits")
	flags.BoolVarP(&o.reject, "reject", "r", false, "reject all CriticMarkup edits")
	flags.BoolVar(&o.noSmart, "nosmart", false, "disable smart typography substitution")
	flags.BoolVar(&o.noLabels, "nolabels", false, "disable automatic header anchor labels")
	flags.BoolVar(&o.noTransclude, "notransclude", false, "disable transclusion of external files")
	flags.BoolVar(&o.random, "random", false, "use random header labels instead of slugified text")
	flags.BoolVar(&o.unique, "unique", false, "force uniqueness of duplicate header labels")
	flags.StringVarP(&o.language, "language", "l", "en", "UI string and smart-quote language code")
	flags.BoolVarP(&o.listMeta, "metadata-keys", "m", false, "list the document's metadata keys and values as YAML, instead of converting")
	flags.StringVarP(&o.extractMeta, "extract", "e", "", "print a single metadata key's value, instead of converting")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(o options, args []string) error {
	if len(args) == 0 {
		return convertOne(o, "", os.Stdin, os.Stdout)
	}
	if !o.batch && len(args) == 1 {
		return convertFile(o, args[0])
	}

	var errs *multierror.Error
	for _, path := range args {
		if err := convertFile(o, path); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			if o.batchStrict {
				return errs.ErrorOrNil()
			}
		}
	}
	return errs.ErrorOrNil()
}

// metadataMode reports whether this invocation inspects metadata instead of
// converting, per the "-m"/"-e KEY" CLI surface.
func (o options) metadataMode() bool {
	return o.listMeta || o.extractMeta != ""
}

func convertFile(o options, path string) error {
	in, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := o.output
	if outPath == "" && o.batch {
		to := o.to
		if o.metadataMode() {
			to = "yaml"
		}
		outPath = outputPathFor(path, to)
	}
	var out io.Writer = os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := fs.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return convertOne(o, path, in, out)
}

func outputPathFor(path, to string) string {
	ext := map[string]string{"html": ".html", "latex": ".tex", "opml": ".opml", "yaml": ".yaml"}[to]
	if ext == "" {
		ext = ".out"
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i] + ext
	}
	return path + ext
}

func convertOne(o options, path string, in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	eng := mmd.NewEngine(src, buildOptions(o)...)

	if o.metadataMode() {
		return reportMetadata(o, eng, out)
	}

	renderer, err := rendererFor(o.to)
	if err != nil {
		return err
	}

	for _, d := range eng.Diagnostics {
		reportDiagnostic(path, d)
	}
	rendered, diags := mmd.Render(eng, renderer)
	for _, d := range diags {
		reportDiagnostic(path, d)
	}
	for _, e := range eng.UTF8Errors {
		log.Printf("%s: malformed UTF-8 at byte offset %d", displayPath(path), e.Offset)
	}

	if _, err := out.Write(rendered); err != nil {
		return err
	}
	return nil
}

// reportMetadata serves the "-m"/"-e KEY" surface: list every metadata
// key/value as YAML, or print a single key's raw value.
func reportMetadata(o options, eng *mmd.Engine, out io.Writer) error {
	if o.extractMeta != "" {
		v, ok := eng.Refs.Meta(o.extractMeta)
		if !ok {
			return fmt.Errorf("metadata key %q not found", o.extractMeta)
		}
		_, err := io.WriteString(out, v+"\n")
		return err
	}

	seen := make(map[string]bool, len(eng.Refs.Metadata))
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range eng.Refs.Metadata {
		if seen[kv.Key] {
			continue
		}
		seen[kv.Key] = true
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Value},
		)
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(doc)
}

func rendererFor(to string) (mmd.Renderer, error) {
	switch to {
	case "html", "":
		return mmd.NewHTMLRenderer(), nil
	case "latex":
		return mmd.NewLaTeXRenderer(), nil
	case "opml":
		return mmd.NewOPMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: html, latex, opml)", to)
	}
}

func buildOptions(o options) []mmd.Option {
	ext := mmd.CommonExtensions
	if o.compatibility {
		ext |= mmd.ExtCompatibility
	}
	if o.full {
		ext |= mmd.ExtComplete
	}
	if o.snippet {
		ext |= mmd.ExtSnippet
	}
	if o.accept {
		ext |= mmd.ExtCriticAccept | mmd.ExtCritic
	}
	if o.reject {
		ext |= mmd.ExtCriticReject | mmd.ExtCritic
	}
	if o.noSmart {
		ext &^= mmd.ExtSmart
	}
	if o.noLabels {
		ext |= mmd.ExtNoLabels
	}
	if o.noTransclude {
		ext &^= mmd.ExtTransclude
	}
	if o.random {
		ext |= mmd.ExtRandomLabels
	}
	if o.unique {
		ext |= mmd.ExtUniqueLabels
	}

	opts := []mmd.Option{mmd.WithExtensions(ext)}
	opts = append(opts, mmd.WithLanguage(mmd.LanguageFromCode(o.language)))
	return opts
}

func reportDiagnostic(path string, d mmd.Diagnostic) {
	log.Printf("%s: %s at byte offset %d: %s", displayPath(path), d.Kind, d.Offset, d.Detail)
}

func displayPath(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
