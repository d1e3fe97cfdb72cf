package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "rentora",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "")
	root.PersistentFlags().StringVar(&flagKey, "api-key", "", "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newPropertyCmd())
	root.AddCommand(newLeaseCmd())
	root.AddCommand(newAdminCmd())
	root.AddCommand(newAuditCmd())
	return root
}

func TestPropertyGetArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "requires exactly one positional arg",
			args:    []string{"property", "get"},
			wantErr: true,
		},
		{
			name:    "rejects two positional args",
			args:    []string{"property", "get", "1", "2"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			err := executeArgs(t, root, tc.args...)
			if tc.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPropertyMintRequiredFlags(t *testing.T) {
	root := newTestRoot()
	// Missing all required flags.
	if err := executeArgs(t, root, "property", "mint", "Berlin"); err == nil {
		t.Error("expected error for missing required flags")
	}
}

func TestLeaseApplyRequiredFlags(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "lease", "apply", "1"); err == nil {
		t.Error("expected error for missing --duration and --amount")
	}
}

func TestLeaseApplyMissingPropertyArg(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "lease", "apply", "--duration", "12", "--amount", "100"); err == nil {
		t.Error("expected error for missing property id")
	}
}

func TestLeasePayRequiresAmount(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "lease", "pay", "1"); err == nil {
		t.Error("expected error for missing --amount")
	}
}

func TestLeaseSwitchRequiredFlags(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "lease", "switch", "2"); err == nil {
		t.Error("expected error for missing --from, --duration and --amount")
	}
}

func TestAdminGracePeriodRequiresSeconds(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "admin", "set-grace-period"); err == nil {
		t.Error("expected error for missing --seconds")
	}
}

func TestUnknownCommand(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "bogus"); err == nil {
		t.Error("expected error for unknown command")
	}
}
