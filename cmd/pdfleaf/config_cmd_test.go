package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "team.yaml")
	writeFile(t, path, `api:
  key: pk_live_secretvalue
pdf:
  pageSize: A5
webhook:
  secret: whsec_topsecret
`)

	t.Run("prints masked config", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv("")
		if code := runMain(cli("config", "-c", path, "--base-url", "https://pdf.example.com"), env); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr:\n%s", code, stderr)
		}

		out := stdout.String()
		for _, want := range []string{"pk_live_********", "pageSize: A5", "https://pdf.example.com"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		for _, secret := range []string{"secretvalue", "whsec_topsecret"} {
			if strings.Contains(out, secret) {
				t.Errorf("output leaks %q:\n%s", secret, out)
			}
		}
	})

	t.Run("invalid flag value", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		if code := runMain(cli("config", "-c", path, "--timeout=-5s"), env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		if code := runMain(cli("config", "-c", filepath.Join(t.TempDir(), "none.yaml")), env); code != ExitUsage && code != ExitIO {
			t.Errorf("exit code = %d, want usage or I/O error", code)
		}
	})

	t.Run("paths", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("")
		if code := runMain(cli("config", "paths", "team"), env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		if len(lines) < 2 || lines[0] != "team.yaml" || lines[1] != "team.yml" {
			t.Errorf("paths = %q", lines)
		}
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		if code := runMain(cli("config", "edit"), env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}
