// Package mail registers the Outlook mail actions.
package mail

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

// Actions holds the mail action handlers.
type Actions struct {
	client  *graphclient.Client
	mailbox string
}

// New creates the mail actions bound to a Graph client and default mailbox.
func New(client *graphclient.Client, mailbox string) *Actions {
	return &Actions{client: client, mailbox: mailbox}
}

// Register adds all mail actions to the registry.
func (a *Actions) Register(reg *services.ActionRegistry) error {
	mailboxParam := domain.ParamSpec{Name: "mailbox", Type: domain.TypeString}

	actions := []domain.Action{
		{
			Name:        "mail_listar",
			Category:    "mail",
			Description: "List messages in a mail folder",
			Params: []domain.ParamSpec{
				{Name: "top", Type: domain.TypeInt},
				{Name: "skip", Type: domain.TypeInt},
				{Name: "folder", Type: domain.TypeString},
				{Name: "select", Type: domain.TypeList},
				{Name: "filter_query", Type: domain.TypeString},
				{Name: "order_by", Type: domain.TypeString},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.list),
		},
		{
			Name:        "mail_leer",
			Category:    "mail",
			Description: "Read a single message",
			Params: []domain.ParamSpec{
				{Name: "message_id", Type: domain.TypeString, Required: true},
				{Name: "select", Type: domain.TypeList},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.read),
		},
		{
			Name:        "mail_enviar",
			Category:    "mail",
			Description: "Send a message",
			Params: []domain.ParamSpec{
				{Name: "destinatario", Type: domain.TypeAny, Required: true},
				{Name: "asunto", Type: domain.TypeString, Required: true},
				{Name: "mensaje", Type: domain.TypeString, Required: true},
				{Name: "cc", Type: domain.TypeAny},
				{Name: "bcc", Type: domain.TypeAny},
				{Name: "attachments", Type: domain.TypeList},
				{Name: "save_to_sent", Type: domain.TypeBool},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.send),
		},
		{
			Name:        "mail_responder",
			Category:    "mail",
			Description: "Reply to a message",
			Params: []domain.ParamSpec{
				{Name: "message_id", Type: domain.TypeString, Required: true},
				{Name: "mensaje_respuesta", Type: domain.TypeString, Required: true},
				{Name: "reply_all", Type: domain.TypeBool},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.reply),
		},
		{
			Name:        "mail_reenviar",
			Category:    "mail",
			Description: "Forward a message",
			Params: []domain.ParamSpec{
				{Name: "message_id", Type: domain.TypeString, Required: true},
				{Name: "destinatarios", Type: domain.TypeAny, Required: true},
				{Name: "mensaje_reenvio", Type: domain.TypeString},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.forward),
		},
		{
			Name:        "mail_eliminar",
			Category:    "mail",
			Description: "Delete a message",
			Params: []domain.ParamSpec{
				{Name: "message_id", Type: domain.TypeString, Required: true},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.delete),
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

func (a *Actions) list(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(p.Int("top", 10)))
	query.Set("$skip", strconv.Itoa(p.Int("skip", 0)))
	if sel := p.StringList("select"); len(sel) > 0 {
		query.Set("$select", strings.Join(sel, ","))
	}
	if filter := p.String("filter_query", ""); filter != "" {
		query.Set("$filter", filter)
	}
	if orderBy := p.String("order_by", ""); orderBy != "" {
		query.Set("$orderby", orderBy)
	}

	folder := p.String("folder", "Inbox")
	path := a.userPath(p) + "/mailFolders/" + url.PathEscape(folder) + "/messages"
	return a.client.Do(ctx, http.MethodGet, path, query, nil, auth)
}

func (a *Actions) read(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	var query url.Values
	if sel := p.StringList("select"); len(sel) > 0 {
		query = url.Values{"$select": {strings.Join(sel, ",")}}
	}
	path := a.userPath(p) + "/messages/" + url.PathEscape(p.String("message_id", ""))
	return a.client.Do(ctx, http.MethodGet, path, query, nil, auth)
}

func (a *Actions) send(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	to, err := recipients(p["destinatario"])
	if err != nil {
		return nil, fmt.Errorf("destinatario: %w", err)
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: at least one valid 'destinatario' is required", domain.ErrInvalidArgument)
	}

	message := map[string]any{
		"subject": p.String("asunto", ""),
		"body": map[string]any{
			"contentType": "HTML",
			"content":     p.String("mensaje", ""),
		},
		"toRecipients": to,
	}
	if cc, err := recipients(p["cc"]); err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	} else if len(cc) > 0 {
		message["ccRecipients"] = cc
	}
	if bcc, err := recipients(p["bcc"]); err != nil {
		return nil, fmt.Errorf("bcc: %w", err)
	} else if len(bcc) > 0 {
		message["bccRecipients"] = bcc
	}
	if attachments := p.List("attachments"); len(attachments) > 0 {
		message["attachments"] = attachments
	}

	payload := map[string]any{
		"message":         message,
		"saveToSentItems": p.Bool("save_to_sent", true),
	}

	// sendMail answers 202 Accepted with no body.
	if _, err := a.client.Do(ctx, http.MethodPost, a.userPath(p)+"/sendMail", nil, payload, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Enviado"}, nil
}

func (a *Actions) reply(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	verb := "reply"
	if p.Bool("reply_all", false) {
		verb = "replyAll"
	}
	path := a.userPath(p) + "/messages/" + url.PathEscape(p.String("message_id", "")) + "/" + verb
	payload := map[string]any{"comment": p.String("mensaje_respuesta", "")}
	if _, err := a.client.Do(ctx, http.MethodPost, path, nil, payload, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Respondido"}, nil
}

func (a *Actions) forward(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	to, err := recipients(p["destinatarios"])
	if err != nil {
		return nil, fmt.Errorf("destinatarios: %w", err)
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: at least one valid 'destinatarios' entry is required", domain.ErrInvalidArgument)
	}

	path := a.userPath(p) + "/messages/" + url.PathEscape(p.String("message_id", "")) + "/forward"
	payload := map[string]any{
		"toRecipients": to,
		"comment":      p.String("mensaje_reenvio", "FYI"),
	}
	if _, err := a.client.Do(ctx, http.MethodPost, path, nil, payload, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Reenviado"}, nil
}

func (a *Actions) delete(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := a.userPath(p) + "/messages/" + url.PathEscape(p.String("message_id", ""))
	if _, err := a.client.Do(ctx, http.MethodDelete, path, nil, nil, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Eliminado"}, nil
}

// recipients normalises a recipient parameter, which clients send either as
// a single address string or a list of address strings, into Graph's
// emailAddress shape. A nil input yields an empty list.
func recipients(value any) ([]map[string]any, error) {
	var addrs []string
	switch v := value.(type) {
	case nil:
	case string:
		addrs = []string{v}
	case []string:
		addrs = v
	case []any:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: recipient entries must be strings, got %T", domain.ErrInvalidArgument, e)
			}
			addrs = append(addrs, s)
		}
	default:
		return nil, fmt.Errorf("%w: recipients must be a string or a list of strings, got %T", domain.ErrInvalidArgument, value)
	}

	out := make([]map[string]any, 0, len(addrs))
	for _, addr := range addrs {
		if strings.TrimSpace(addr) == "" {
			continue
		}
		out = append(out, map[string]any{
			"emailAddress": map[string]any{"address": addr},
		})
	}
	return out, nil
}
