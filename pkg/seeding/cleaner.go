// pkg/seeding/cleaner.go

package seeding

import (
	"context"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/console"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Confirmer asks the operator a yes/no question. An error (EOF, interrupt)
// is treated as "no".
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// CleanupOptions configures a cleanup run.
type CleanupOptions struct {
	BaseURL string
	Realm   string
}

// CleanupResult is the outcome of a cleanup run.
type CleanupResult struct {
	Realm     string
	Cancelled bool
	Status    iam.Status
	Err       error // delete failure; does not fail the command
}

// Cleaner deletes the test realm after confirmation.
type Cleaner struct {
	provider iam.Provider
	out      *console.Reporter
	confirm  Confirmer
	opts     CleanupOptions
}

func NewCleaner(p iam.Provider, out *console.Reporter, confirm Confirmer, opts CleanupOptions) *Cleaner {
	if out == nil {
		out = console.Discard()
	}
	return &Cleaner{provider: p, out: out, confirm: confirm, opts: opts}
}

// Run asks for confirmation, authenticates and deletes the realm. The
// returned error is non-nil only for authentication failures.
func (c *Cleaner) Run(ctx context.Context) (*CleanupResult, error) {
	logger := otelzap.Ctx(ctx)
	realm := c.opts.Realm
	res := &CleanupResult{Realm: realm}

	c.out.Warning("=== %s Performance Test Data Cleanup ===", c.provider.Name())
	c.out.Line("Base URL: %s", c.opts.BaseURL)
	c.out.Line("Realm to delete: %s", realm)
	c.out.Blank()

	prompt := fmt.Sprintf("Are you sure you want to delete the '%s' realm and all its data?", realm)
	ok, err := c.confirm.Confirm(ctx, prompt)
	if err != nil || !ok {
		if err != nil {
			logger.Info("Confirmation aborted", zap.Error(err))
		}
		c.out.Line("Cleanup cancelled.")
		res.Cancelled = true
		return res, nil
	}
	c.out.Blank()

	c.out.Warning("Step 1: Authenticating as admin...")
	token, err := authenticate(ctx, c.provider, c.out)
	if err != nil {
		return res, err
	}
	c.out.Blank()

	c.out.Warning("Step 2: Deleting performance test realm...")
	c.deleteRealm(ctx, token, res)
	c.out.Blank()

	c.out.Success("=== Cleanup Complete ===")
	return res, nil
}

func (c *Cleaner) deleteRealm(ctx context.Context, token string, res *CleanupResult) {
	ctx, span := telemetry.Start(ctx, "cleanup.delete_realm", attribute.String("realm", res.Realm))
	defer span.End()

	c.out.Warning("Deleting realm: %s...", res.Realm)
	status, err := c.provider.DeleteRealm(ctx, token, res.Realm)
	if err != nil {
		res.Err = err
		span.RecordError(err)
		c.out.Error("Failed to delete realm: %v", err)
		otelzap.Ctx(ctx).Warn("Realm deletion failed", zap.String("realm", res.Realm), zap.Error(err))
		return
	}
	res.Status = status
	span.SetAttributes(attribute.String("status", status.String()))
	if status == iam.StatusNotFound {
		c.out.Warning("Realm '%s' not found (already deleted?)", res.Realm)
		return
	}
	c.out.Success("Realm '%s' deleted successfully", res.Realm)
}
