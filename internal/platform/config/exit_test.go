package config_test

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/autofix/internal/platform/config"
)

// os.Exit cannot be intercepted in-process, so the test re-runs itself.
func TestExitfReportsAndExits(t *testing.T) {
	if os.Getenv("AUTOFIX_EXITF_SUBPROCESS") == "1" {
		config.Exitf("parse flags: %s", "bad port")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfReportsAndExits$")
	cmd.Env = append(os.Environ(), "AUTOFIX_EXITF_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if want := "autofix: parse flags: bad port"; !strings.Contains(string(out), want) {
		t.Fatalf("expected output to contain %q, got %q", want, string(out))
	}
}
