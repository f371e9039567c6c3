// Package actions assembles the full action catalog.
package actions

import (
	"log/slog"

	"github.com/custodia-labs/graph-actions/internal/actions/calendar"
	"github.com/custodia-labs/graph-actions/internal/actions/mail"
	"github.com/custodia-labs/graph-actions/internal/actions/meta"
	"github.com/custodia-labs/graph-actions/internal/actions/onedrive"
	"github.com/custodia-labs/graph-actions/internal/actions/teams"
	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

// Config carries catalog-wide settings.
type Config struct {
	// Mailbox is the default user whose mailbox, calendar and drive the
	// actions address when a call does not override it.
	Mailbox string
	// Version is reported by the version action.
	Version string
}

type registrar interface {
	Register(*services.ActionRegistry) error
}

type category struct {
	name string
	reg  registrar
}

// BuildRegistry registers every action category against a fresh registry.
// A category that fails to register is logged and skipped so one bad
// category cannot take the whole catalog down; an empty catalog is still an
// error.
func BuildRegistry(client *graphclient.Client, cfg Config, log *slog.Logger) (*services.ActionRegistry, error) {
	reg := services.NewActionRegistry()

	return registerCategories(reg, []category{
		{"mail", mail.New(client, cfg.Mailbox)},
		{"calendar", calendar.New(client, cfg.Mailbox)},
		{"onedrive", onedrive.New(client, cfg.Mailbox)},
		{"teams", teams.New(client, cfg.Mailbox)},
		{"meta", meta.New(reg, cfg.Version)},
	}, log)
}

func registerCategories(reg *services.ActionRegistry, categories []category, log *slog.Logger) (*services.ActionRegistry, error) {
	for _, c := range categories {
		if err := c.reg.Register(reg); err != nil {
			log.Warn("skipping action category", "category", c.name, "error", err)
		}
	}

	if reg.Len() == 0 {
		return nil, domain.ErrNoActions
	}
	log.Info("action catalog ready", "actions", reg.Len())
	return reg, nil
}
