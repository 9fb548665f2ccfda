package main

import (
	"fmt"
	"io"
	"strings"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Markdown or HTML files to PDF")
	fmt.Fprintln(w, "  submit     Create a conversion job and print its id")
	fmt.Fprintln(w, "  status     Show the state of a job")
	fmt.Fprintln(w, "  wait       Wait for a job to finish")
	fmt.Fprintln(w, "  download   Download the PDF of a finished job")
	fmt.Fprintln(w, "  webhook    Manage webhooks and verify deliveries")
	fmt.Fprintln(w, "  config     Show the effective configuration")
	fmt.Fprintln(w, "  doctor     Check configuration and service connectivity")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfleaf help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by every API command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Connection:")
	fmt.Fprintln(w, "      --api-key <key>       API key (default $PDFLEAF_API_KEY)")
	fmt.Fprintln(w, "      --base-url <url>      Service origin")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-request timeout (e.g., 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show job progress and debug logs")
}

// printPDFUsage prints the rendering option flags.
func printPDFUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       A4, Letter, A3, A5, Legal")
	fmt.Fprintln(w, "      --orientation <s>     portrait, landscape")
	fmt.Fprintln(w, "      --margin <u>          All margins (e.g., 2cm, 1in)")
	fmt.Fprintln(w, "      --margin-top <u>      Also --margin-bottom, --margin-left, --margin-right")
	fmt.Fprintln(w, "      --page-numbers        Include page numbers (--no-page-numbers to omit)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header/Footer:")
	fmt.Fprintln(w, "      --header-html <html>  HTML at the top of each page")
	fmt.Fprintln(w, "      --footer-html <html>  HTML at the bottom of each page")
	fmt.Fprintln(w, "      --header-height <u>   Header height")
	fmt.Fprintln(w, "      --footer-height <u>   Footer height")
	fmt.Fprintln(w, "      --exclude-header-pages <list>  Pages without header (e.g., 1,2)")
	fmt.Fprintln(w, "      --exclude-footer-pages <list>  Pages without footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "      --style <name|path>   Style injected into the HTML (built-in: "+strings.Join(assets.Names(), ", ")+")")
	fmt.Fprintln(w, "      --styles-dir <dir>    Directory of {name}.css overriding built-in styles")
	fmt.Fprintln(w, "      --code-style <name>   Code highlighting style (e.g., monokai)")
	fmt.Fprintln(w, "      --markdown            Treat input as Markdown")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown or HTML files to PDF. Markdown is rendered locally,")
	fmt.Fprintln(w, "local images and stylesheets are inlined, then each document is")
	fmt.Fprintln(w, "submitted, polled, and downloaded.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or - for stdin (PDF goes to stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintf(w, "  -w, --workers <n>         Parallel conversions (0 = auto, max %d)\n", pdfleaf.MaxWorkers)
	fmt.Fprintln(w, "      --html                Also write the prepared HTML")
	fmt.Fprintln(w, "      --html-only           Write the prepared HTML only, no API call")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Waiting:")
	fmt.Fprintln(w, "      --poll-interval <d>   Delay between status checks (default 500ms)")
	fmt.Fprintln(w, "      --max-wait <d>        Give up after this long (default 60s)")
	fmt.Fprintln(w)
	printPDFUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printSubmitUsage prints usage for the submit command.
func printSubmitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf submit <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create a conversion job and print its id without waiting.")
	fmt.Fprintln(w, "Resume with 'pdfleaf wait <id> -o out.pdf'.")
	fmt.Fprintln(w)
	printPDFUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printJobUsage prints usage for status, wait and download.
func printJobUsage(w io.Writer, name string) {
	switch name {
	case "status":
		fmt.Fprintln(w, "Usage: pdfleaf status <job-id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show the state of a job: pending, processing, completed, or failed.")
	case "wait":
		fmt.Fprintln(w, "Usage: pdfleaf wait <job-id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Poll a job until it completes or fails. With -o, download the PDF.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  -o, --output <path>       PDF output path (- for stdout)")
		fmt.Fprintln(w, "      --poll-interval <d>   Delay between status checks")
		fmt.Fprintln(w, "      --max-wait <d>        Give up after this long")
	case "download":
		fmt.Fprintln(w, "Usage: pdfleaf download <job-id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Download the PDF of a completed job.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  -o, --output <path>       PDF output path (default <job-id>.pdf, - for stdout)")
	}
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printWebhookUsage prints usage for the webhook command.
func printWebhookUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf webhook <subcommand> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  create --url <https-url> [--event <name>]...   Register a webhook")
	fmt.Fprintln(w, "  list                                           List webhooks")
	fmt.Fprintln(w, "  delete <id>                                    Delete a webhook")
	fmt.Fprintln(w, "  sign [file] --secret <s>                       Print the signature for a body")
	fmt.Fprintln(w, "  verify [file] --signature <sig> --secret <s>   Check a delivery signature")
	fmt.Fprintln(w, "  listen [--listen :8080] [--path <p>]           Receive deliveries locally")
	fmt.Fprintln(w, "         [--download-dir <dir>]                  and fetch completed PDFs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Events: job.completed, job.failed")
	fmt.Fprintln(w, "The secret defaults to $PDFLEAF_WEBHOOK_SECRET or webhook.secret in the config.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf config [paths [name]] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration (file, environment and flags merged)")
	fmt.Fprintln(w, "with secrets masked. 'paths' lists where a config name is searched.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfleaf doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the configuration, the API key and that the service answers.")
	fmt.Fprintln(w, "Exits 1 when a check fails.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "submit":
		printSubmitUsage(env.Stdout)
	case "status", "wait", "download":
		printJobUsage(env.Stdout, args[0])
	case "webhook":
		printWebhookUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfleaf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfleaf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
