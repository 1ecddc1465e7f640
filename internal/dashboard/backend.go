package dashboard

import (
	"context"

	"github.com/orion-ad/guardian/pkg/client"
)

// Backend is the subset of the Orion API the dashboard depends on.
type Backend interface {
	ListAlerts(ctx context.Context, opts *client.AlertListOptions) (*client.AlertList, error)
	Statistics(ctx context.Context) (*client.Statistics, error)
	Config(ctx context.Context) (*client.BackendConfig, error)
	MarkRead(ctx context.Context, id string) (*client.ActionResult, error)
	Remediate(ctx context.Context, id string) (*client.ActionResult, error)
}

type clientBackend struct {
	c *client.Client
}

// FromClient adapts an API client to Backend
func FromClient(c *client.Client) Backend {
	return clientBackend{c: c}
}

func (b clientBackend) ListAlerts(ctx context.Context, opts *client.AlertListOptions) (*client.AlertList, error) {
	return b.c.Alerts().List(ctx, opts)
}

func (b clientBackend) Statistics(ctx context.Context) (*client.Statistics, error) {
	return b.c.Statistics(ctx)
}

func (b clientBackend) Config(ctx context.Context) (*client.BackendConfig, error) {
	return b.c.Config(ctx)
}

func (b clientBackend) MarkRead(ctx context.Context, id string) (*client.ActionResult, error) {
	return b.c.Alerts().MarkRead(ctx, id)
}

func (b clientBackend) Remediate(ctx context.Context, id string) (*client.ActionResult, error) {
	return b.c.Alerts().Remediate(ctx, id)
}
