package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/webhook"
)

// Webhook receiver defaults.
const (
	defaultListenAddr  = ":8080"
	defaultWebhookPath = "/webhooks/pdfleaf"
	healthPath         = "/healthz"
	shutdownTimeout    = 5 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

// runWebhook dispatches the webhook subcommands.
func runWebhook(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printWebhookUsage(env.Stderr)
		return fmt.Errorf("%w: webhook needs a subcommand", ErrMissingArgument)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		return runWebhookCreate(ctx, rest, env)
	case "list":
		return runWebhookList(ctx, rest, env)
	case "delete":
		return runWebhookDelete(ctx, rest, env)
	case "sign":
		return runWebhookSign(rest, env)
	case "verify":
		return runWebhookVerify(ctx, rest, env)
	case "listen":
		return runWebhookListen(ctx, rest, env)
	case "help", "-h", "--help":
		printWebhookUsage(env.Stdout)
		return nil
	default:
		printWebhookUsage(env.Stderr)
		return fmt.Errorf("%w: webhook %s", ErrUnknownCommand, sub)
	}
}

// webhookClient parses flags for an API-backed subcommand and builds a client.
func webhookClient(sub string, args []string, env *Environment) (*webhookFlags, []string, apiClient, error) {
	flags, positional, err := parseWebhookFlags(sub, args, env.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	client, err := newClient(cfg, flags.common, env)
	if err != nil {
		return nil, nil, nil, err
	}
	return flags, positional, client, nil
}

// runWebhookCreate registers a webhook and prints its id and secret.
func runWebhookCreate(ctx context.Context, args []string, env *Environment) error {
	flags, _, client, err := webhookClient("create", args, env)
	if err != nil {
		return err
	}

	events := webhook.Events()
	if len(flags.events) > 0 {
		events = make([]webhook.Event, len(flags.events))
		for i, e := range flags.events {
			events[i] = webhook.Event(strings.TrimSpace(e))
		}
	}

	wh, err := client.CreateWebhook(ctx, pdfleaf.WebhookConfig{URL: flags.url, Events: events})
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "id:     %s\n", wh.ID)
	fmt.Fprintf(env.Stdout, "url:    %s\n", wh.URL)
	fmt.Fprintf(env.Stdout, "events: %s\n", joinEvents(wh.Events))
	fmt.Fprintf(env.Stdout, "secret: %s\n", wh.Secret)
	if !flags.common.quiet {
		fmt.Fprintln(env.Stderr, "Store the secret now: it is not shown again.")
	}
	return nil
}

// runWebhookList prints one line per registered webhook.
func runWebhookList(ctx context.Context, args []string, env *Environment) error {
	flags, _, client, err := webhookClient("list", args, env)
	if err != nil {
		return err
	}

	hooks, err := client.ListWebhooks(ctx)
	if err != nil {
		return err
	}

	if len(hooks) == 0 {
		if !flags.common.quiet {
			fmt.Fprintln(env.Stderr, "No webhooks registered.")
		}
		return nil
	}
	for _, wh := range hooks {
		state := "active"
		if !wh.IsActive {
			state = "inactive"
		}
		fmt.Fprintf(env.Stdout, "%s\t%s\t%s\t%s\n", wh.ID, state, wh.URL, joinEvents(wh.Events))
	}
	return nil
}

// runWebhookDelete removes a webhook by id.
func runWebhookDelete(ctx context.Context, args []string, env *Environment) error {
	flags, positional, client, err := webhookClient("delete", args, env)
	if err != nil {
		return err
	}
	if len(positional) != 1 || positional[0] == "" {
		return fmt.Errorf("%w: webhook delete takes exactly one webhook id", ErrMissingArgument)
	}

	if err := client.DeleteWebhook(ctx, positional[0]); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Deleted %s\n", positional[0])
	}
	return nil
}

// resolveSecret returns the --secret flag, else the configured secret.
func resolveSecret(flags *webhookFlags) (string, error) {
	if flags.secret != "" {
		return flags.secret, nil
	}
	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return "", err
	}
	if cfg.Webhook.Secret == "" {
		return "", ErrMissingSecret
	}
	return cfg.Webhook.Secret, nil
}

// readPayload reads the raw body from the file argument, or stdin for none or "-".
func readPayload(positional []string, stdin io.Reader) ([]byte, error) {
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: expected at most one payload file", ErrUsage)
	}
	if len(positional) == 0 || positional[0] == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(positional[0]) // #nosec G304 -- payload path given by the user
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return data, nil
}

// runWebhookSign prints the signature header the service would send for a body.
func runWebhookSign(args []string, env *Environment) error {
	flags, positional, err := parseWebhookFlags("sign", args, env.Stderr)
	if err != nil {
		return err
	}
	secret, err := resolveSecret(flags)
	if err != nil {
		return err
	}
	body, err := readPayload(positional, env.Stdin)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, webhook.Sign(body, secret))
	return nil
}

// runWebhookVerify checks a body against a signature header value.
func runWebhookVerify(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWebhookFlags("verify", args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.signature == "" {
		return fmt.Errorf("%w: --signature is required", ErrMissingArgument)
	}
	secret, err := resolveSecret(flags)
	if err != nil {
		return err
	}
	body, err := readPayload(positional, env.Stdin)
	if err != nil {
		return err
	}

	if !<-webhook.VerifyAsync(ctx, body, flags.signature, secret) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "invalid")
		}
		return ErrSignatureMismatch
	}
	if !flags.common.quiet {
		fmt.Fprintln(env.Stdout, "valid")
	}
	return nil
}

// runWebhookListen serves a local receiver until ctx is canceled.
func runWebhookListen(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseWebhookFlags("listen", args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return err
	}
	if flags.listen != "" {
		cfg.Webhook.Listen = flags.listen
	}
	if flags.path != "" {
		cfg.Webhook.Path = flags.path
	}
	if flags.secret != "" {
		cfg.Webhook.Secret = flags.secret
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Webhook.Secret == "" {
		return ErrMissingSecret
	}

	addr := cfg.Webhook.Listen
	if addr == "" {
		addr = defaultListenAddr
	}
	path := cfg.Webhook.Path
	if path == "" {
		path = defaultWebhookPath
	}

	var client apiClient
	if flags.downloadDir != "" {
		if client, err = newClient(cfg, flags.common, env); err != nil {
			return err
		}
	}

	logger := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	recv := &receiver{
		out:         &lockedWriter{w: env.Stdout},
		client:      client,
		downloadDir: flags.downloadDir,
		logger:      logger,
	}
	router := newWebhookRouter(cfg.Webhook.Secret, path, recv.handle, logger)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Listening on %s%s\n", ln.Addr(), path)
	}
	return serve(ctx, ln, router)
}

// newWebhookRouter routes deliveries on path to a verifying handler and
// answers health checks.
func newWebhookRouter(secret, path string, fn webhook.HandlerFunc, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Handle(path, webhook.NewHandler(secret, fn, webhook.WithHandlerLogger(logger)))
	r.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	}).Methods(http.MethodGet)
	return r
}

// serve runs an HTTP server on ln until ctx is done, then shuts it down.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// receiver prints verified deliveries and optionally fetches completed PDFs.
type receiver struct {
	out         io.Writer
	client      apiClient // nil unless downloadDir is set
	downloadDir string
	logger      *zap.Logger
}

func (rc *receiver) handle(ctx context.Context, p *webhook.Payload) error {
	line := fmt.Sprintf("%s\t%s\t%s", p.Event, p.JobID, p.Data.Status)
	if p.Data.Error != "" {
		line += "\t" + p.Data.Error
	}
	fmt.Fprintln(rc.out, line)

	if rc.client == nil || p.Event != webhook.EventJobCompleted {
		return nil
	}

	pdf, err := rc.client.Download(ctx, p.JobID)
	if err != nil {
		return &jobError{JobID: p.JobID, Err: err}
	}
	path := filepath.Join(rc.downloadDir, filepath.Base(p.JobID)+".pdf")
	if err := writeOutput(path, pdf, nil); err != nil {
		return err
	}
	rc.logger.Debug("pdf saved", zap.String("job_id", p.JobID), zap.String("path", path))
	return nil
}

func joinEvents(events []webhook.Event) string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = string(e)
	}
	return strings.Join(names, ",")
}
