// Package teams registers the Microsoft Teams actions.
package teams

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

// Actions holds the Teams action handlers.
type Actions struct {
	client  *graphclient.Client
	mailbox string
}

// New creates the Teams actions bound to a Graph client and default user.
func New(client *graphclient.Client, mailbox string) *Actions {
	return &Actions{client: client, mailbox: mailbox}
}

// Register adds all Teams actions to the registry.
func (a *Actions) Register(reg *services.ActionRegistry) error {
	mailboxParam := domain.ParamSpec{Name: "mailbox", Type: domain.TypeString}

	actions := []domain.Action{
		{
			Name:        "team_listar_chats",
			Category:    "teams",
			Description: "List the user's chats",
			Params: []domain.ParamSpec{
				{Name: "top", Type: domain.TypeInt},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.listChats),
		},
		{
			Name:        "team_listar_equipos",
			Category:    "teams",
			Description: "List the teams the user has joined",
			Params:      []domain.ParamSpec{mailboxParam},
			Handler:     domain.AuthActionFunc(a.listTeams),
		},
		{
			Name:        "team_obtener_equipo",
			Category:    "teams",
			Description: "Get a team by id",
			Params: []domain.ParamSpec{
				{Name: "equipo_id", Type: domain.TypeString, Required: true},
			},
			Handler: domain.AuthActionFunc(a.getTeam),
		},
		{
			Name:        "team_listar_canales",
			Category:    "teams",
			Description: "List a team's channels",
			Params: []domain.ParamSpec{
				{Name: "equipo_id", Type: domain.TypeString, Required: true},
			},
			Handler: domain.AuthActionFunc(a.listChannels),
		},
		{
			Name:        "team_enviar_mensaje_canal",
			Category:    "teams",
			Description: "Send a message to a team channel",
			Params: []domain.ParamSpec{
				{Name: "equipo_id", Type: domain.TypeString, Required: true},
				{Name: "canal_id", Type: domain.TypeString, Required: true},
				{Name: "mensaje", Type: domain.TypeString, Required: true},
				{Name: "importante", Type: domain.TypeBool},
			},
			Handler: domain.AuthActionFunc(a.sendChannelMessage),
		},
	}

	for _, action := range actions {
		if err := reg.Register(action); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actions) userPath(p domain.Params) string {
	return "/users/" + url.PathEscape(p.String("mailbox", a.mailbox))
}

func (a *Actions) listChats(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(p.Int("top", 20)))
	return a.client.Do(ctx, http.MethodGet, a.userPath(p)+"/chats", query, nil, auth)
}

func (a *Actions) listTeams(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	return a.client.Do(ctx, http.MethodGet, a.userPath(p)+"/joinedTeams", nil, nil, auth)
}

func (a *Actions) getTeam(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := "/teams/" + url.PathEscape(p.String("equipo_id", ""))
	return a.client.Do(ctx, http.MethodGet, path, nil, nil, auth)
}

func (a *Actions) listChannels(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := "/teams/" + url.PathEscape(p.String("equipo_id", "")) + "/channels"
	return a.client.Do(ctx, http.MethodGet, path, nil, nil, auth)
}

func (a *Actions) sendChannelMessage(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	payload := map[string]any{
		"body": map[string]any{
			"contentType": "html",
			"content":     p.String("mensaje", ""),
		},
	}
	if p.Bool("importante", false) {
		payload["importance"] = "high"
	}
	path := "/teams/" + url.PathEscape(p.String("equipo_id", "")) +
		"/channels/" + url.PathEscape(p.String("canal_id", "")) + "/messages"
	return a.client.Do(ctx, http.MethodPost, path, nil, payload, auth)
}
