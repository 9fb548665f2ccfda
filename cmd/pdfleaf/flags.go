package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// apiFlags holds service connection flags.
type apiFlags struct {
	key     string
	baseURL string
	timeout string
}

// waitFlags holds polling flags.
type waitFlags struct {
	pollInterval string
	maxWait      string
}

// pdfFlags holds rendering option flags.
type pdfFlags struct {
	pageSize      string
	orientation   string
	margin        string
	marginTop     string
	marginBottom  string
	marginLeft    string
	marginRight   string
	pageNumbers   bool
	noPageNumbers bool
	headerHTML    string
	footerHTML    string
	headerHeight  string
	footerHeight  string
	excludeHeader string
	excludeFooter string
}

// sourceFlags holds flags controlling how local inputs become HTML.
type sourceFlags struct {
	style     string // style name, CSS file, or inline CSS
	stylesDir string // directory overriding built-in styles
	codeStyle string // chroma style for code blocks ("" = CSS classes)
	markdown  bool   // treat stdin or unknown extensions as Markdown
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	api      apiFlags
	wait     waitFlags
	pdf      pdfFlags
	source   sourceFlags
	output   string
	workers  int
	html     bool // write prepared HTML alongside PDF
	htmlOnly bool // write prepared HTML only, no API call
}

// submitFlags holds flags for the submit command.
type submitFlags struct {
	common commonFlags
	api    apiFlags
	pdf    pdfFlags
	source sourceFlags
}

// jobFlags holds flags for status, wait and download.
type jobFlags struct {
	common commonFlags
	api    apiFlags
	wait   waitFlags
	output string
}

// webhookFlags holds flags for the webhook subcommands.
type webhookFlags struct {
	common      commonFlags
	api         apiFlags
	url         string
	events      []string
	secret      string
	signature   string
	listen      string
	path        string
	downloadDir string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
	api    apiFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	api    apiFlags
	json   bool
}

// newFlagSet creates a FlagSet that reports errors and usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlagSet parses args, passing flag.ErrHelp through and marking every
// other failure as a usage error.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError(err)
	}
	return nil
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show job progress and debug logs")
}

// addAPIFlags adds service connection flags to a FlagSet.
func addAPIFlags(fs *flag.FlagSet, f *apiFlags) {
	fs.StringVar(&f.key, "api-key", "", "API key (prefer PDFLEAF_API_KEY)")
	fs.StringVar(&f.baseURL, "base-url", "", "service origin")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-request timeout (e.g., 30s)")
}

// addWaitFlags adds polling flags to a FlagSet.
func addWaitFlags(fs *flag.FlagSet, f *waitFlags) {
	fs.StringVar(&f.pollInterval, "poll-interval", "", "delay between status checks (e.g., 500ms)")
	fs.StringVar(&f.maxWait, "max-wait", "", "give up waiting after this long (e.g., 2m)")
}

// addPDFFlags adds rendering option flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: A4, Letter, A3, A5, Legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.margin, "margin", "", "all four margins (e.g., 2cm, 1in)")
	fs.StringVar(&f.marginTop, "margin-top", "", "top margin")
	fs.StringVar(&f.marginBottom, "margin-bottom", "", "bottom margin")
	fs.StringVar(&f.marginLeft, "margin-left", "", "left margin")
	fs.StringVar(&f.marginRight, "margin-right", "", "right margin")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "include page numbers")
	fs.BoolVar(&f.noPageNumbers, "no-page-numbers", false, "omit page numbers")
	fs.StringVar(&f.headerHTML, "header-html", "", "HTML repeated at the top of each page")
	fs.StringVar(&f.footerHTML, "footer-html", "", "HTML repeated at the bottom of each page")
	fs.StringVar(&f.headerHeight, "header-height", "", "header height (e.g., 1cm)")
	fs.StringVar(&f.footerHeight, "footer-height", "", "footer height (e.g., 1cm)")
	fs.StringVar(&f.excludeHeader, "exclude-header-pages", "", "pages without header (e.g., 1,2)")
	fs.StringVar(&f.excludeFooter, "exclude-footer-pages", "", "pages without footer (e.g., 1)")
}

// addSourceFlags adds input preparation flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.style, "style", "", "style name or CSS file injected into the HTML")
	fs.StringVar(&f.stylesDir, "styles-dir", "", "directory of {name}.css overriding built-in styles")
	fs.StringVar(&f.codeStyle, "code-style", "", "code highlighting style (e.g., monokai)")
	fs.BoolVar(&f.markdown, "markdown", false, "treat input as Markdown regardless of extension")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVar(&f.html, "html", false, "write prepared HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write prepared HTML only, skip conversion")

	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	addWaitFlags(fs, &f.wait)
	addPDFFlags(fs, &f.pdf)
	addSourceFlags(fs, &f.source)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSubmitFlags parses submit command flags and returns positional args.
func parseSubmitFlags(args []string, w io.Writer) (*submitFlags, []string, error) {
	f := &submitFlags{}
	fs := newFlagSet("submit", w, printSubmitUsage)

	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	addPDFFlags(fs, &f.pdf)
	addSourceFlags(fs, &f.source)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseJobFlags parses status, wait and download flags.
func parseJobFlags(name string, args []string, w io.Writer) (*jobFlags, []string, error) {
	f := &jobFlags{}
	fs := newFlagSet(name, w, func(w io.Writer) { printJobUsage(w, name) })

	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	if name != "status" {
		fs.StringVarP(&f.output, "output", "o", "", "PDF output path")
	}
	if name == "wait" {
		addWaitFlags(fs, &f.wait)
	}

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWebhookFlags parses flags for one webhook subcommand.
func parseWebhookFlags(sub string, args []string, w io.Writer) (*webhookFlags, []string, error) {
	f := &webhookFlags{}
	fs := newFlagSet("webhook "+sub, w, printWebhookUsage)

	addCommonFlags(fs, &f.common)
	switch sub {
	case "create":
		addAPIFlags(fs, &f.api)
		fs.StringVar(&f.url, "url", "", "https endpoint receiving deliveries")
		fs.StringSliceVar(&f.events, "event", nil, "event to subscribe to (repeatable, default all)")
	case "list", "delete":
		addAPIFlags(fs, &f.api)
	case "sign", "verify":
		fs.StringVar(&f.secret, "secret", "", "webhook secret (prefer PDFLEAF_WEBHOOK_SECRET)")
		if sub == "verify" {
			fs.StringVar(&f.signature, "signature", "", "X-PDFLeaf-Signature header value")
		}
	case "listen":
		addAPIFlags(fs, &f.api)
		fs.StringVar(&f.secret, "secret", "", "webhook secret (prefer PDFLEAF_WEBHOOK_SECRET)")
		fs.StringVar(&f.listen, "listen", "", "listen address (default :8080)")
		fs.StringVar(&f.path, "path", "", "delivery path (default /webhooks/pdfleaf)")
		fs.StringVar(&f.downloadDir, "download-dir", "", "download completed PDFs into this directory")
	}

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, w io.Writer) (*configFlags, []string, error) {
	f := &configFlags{}
	fs := newFlagSet("config", w, printConfigUsage)

	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)

	addCommonFlags(fs, &f.common)
	addAPIFlags(fs, &f.api)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments", ErrUsage)
	}
	return f, nil
}
