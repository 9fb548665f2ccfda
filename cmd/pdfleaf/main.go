package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging. Batch worker sizing
	// reads GOMAXPROCS, so it must respect container CPU quotas.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	warnUnknownEnvVars(env.Stderr)

	err := run(ctx, args[1:], env)
	if code := exitCodeFor(err); code != ExitSuccess {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return code
	}
	return ExitSuccess
}

// run dispatches to a command. A bare file argument is shorthand for convert.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "convert":
		return runConvert(ctx, rest, env)
	case "submit":
		return runSubmit(ctx, rest, env)
	case "status":
		return runStatus(ctx, rest, env)
	case "wait":
		return runWait(ctx, rest, env)
	case "download":
		return runDownload(ctx, rest, env)
	case "webhook", "webhooks":
		return runWebhook(ctx, rest, env)
	case "config":
		return runConfig(rest, env)
	case "doctor":
		return runDoctor(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "pdfleaf %s (sdk %s/%s)\n", Version, pdfleaf.SDKPlatform, pdfleaf.SDKVersion)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	if looksLikeInput(cmd) {
		return runConvert(ctx, args, env)
	}

	printUsage(env.Stderr)
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}

// looksLikeInput reports whether arg names a convertible file.
func looksLikeInput(arg string) bool {
	return !strings.HasPrefix(arg, "-") && supportedExtensions[strings.ToLower(filepath.Ext(arg))]
}

// hasVerboseFlag scans raw arguments for -v or --verbose before any flag
// set is parsed.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" || a == "--verbose=true" {
			return true
		}
	}
	return false
}
