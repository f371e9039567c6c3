// Package calendar registers the Outlook calendar actions.
package calendar

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

// graphDateTime is the local-date-time layout Graph expects inside
// dateTimeTimeZone values.
const graphDateTime = "2006-01-02T15:04:05"

// Actions holds the calendar action handlers.
type Actions struct {
	client  *graphclient.Client
	mailbox string
}

// New creates the calendar actions bound to a Graph client and default
// mailbox.
func New(client *graphclient.Client, mailbox string) *Actions {
	return &Actions{client: client, mailbox: mailbox}
}

// Register adds all calendar actions to the registry.
func (a *Actions) Register(reg *services.ActionRegistry) error {
	mailboxParam := domain.ParamSpec{Name: "mailbox", Type: domain.TypeString}

	actions := []domain.Action{
		{
			Name:        "cal_listar_eventos",
			Category:    "calendar",
			Description: "List calendar events, optionally within a date range",
			Params: []domain.ParamSpec{
				{Name: "top", Type: domain.TypeInt},
				{Name: "start_date", Type: domain.TypeTimestamp},
				{Name: "end_date", Type: domain.TypeTimestamp},
				{Name: "filter_query", Type: domain.TypeString},
				{Name: "order_by", Type: domain.TypeString},
				{Name: "select", Type: domain.TypeList},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.listEvents),
		},
		{
			Name:        "cal_crear_evento",
			Category:    "calendar",
			Description: "Create a calendar event",
			Params:      a.createEventParams(),
			Handler:     domain.AuthActionFunc(a.createEvent),
		},
		{
			Name:        "cal_actualizar_evento",
			Category:    "calendar",
			Description: "Patch fields of an existing event",
			Params: []domain.ParamSpec{
				{Name: "evento_id", Type: domain.TypeString, Required: true},
				{Name: "nuevos_valores", Type: domain.TypeObject, Required: true},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.updateEvent),
		},
		{
			Name:        "cal_eliminar_evento",
			Category:    "calendar",
			Description: "Delete a calendar event",
			Params: []domain.ParamSpec{
				{Name: "evento_id", Type: domain.TypeString, Required: true},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.deleteEvent),
		},
		{
			Name:        "cal_crear_reunion_teams",
			Category:    "calendar",
			Description: "Create an event with an online Teams meeting",
			Params:      a.createEventParams(),
			Handler:     domain.AuthActionFunc(a.createTeamsMeeting),
		},
	}

	for _, action := range actions {
		if err := reg.Register(action); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actions) createEventParams() []domain.ParamSpec {
	return []domain.ParamSpec{
		{Name: "titulo", Type: domain.TypeString, Required: true},
		{Name: "inicio", Type: domain.TypeTimestamp, Required: true},
		{Name: "fin", Type: domain.TypeTimestamp, Required: true},
		{Name: "asistentes", Type: domain.TypeAny},
		{Name: "cuerpo", Type: domain.TypeString},
		{Name: "recordatorio_minutos", Type: domain.TypeInt},
		{Name: "ubicacion", Type: domain.TypeString},
		{Name: "mostrar_como", Type: domain.TypeString},
		{Name: "mailbox", Type: domain.TypeString},
	}
}

func (a *Actions) userPath(p domain.Params) string {
	return "/users/" + url.PathEscape(p.String("mailbox", a.mailbox))
}

func (a *Actions) listEvents(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(p.Int("top", 10)))
	if sel := p.StringList("select"); len(sel) > 0 {
		query.Set("$select", strings.Join(sel, ","))
	}
	if filter := p.String("filter_query", ""); filter != "" {
		query.Set("$filter", filter)
	}
	if orderBy := p.String("order_by", ""); orderBy != "" {
		query.Set("$orderby", orderBy)
	}

	// calendarView expands recurring events but requires both range ends.
	start, hasStart := p.Time("start_date")
	end, hasEnd := p.Time("end_date")
	path := a.userPath(p) + "/events"
	if hasStart && hasEnd {
		path = a.userPath(p) + "/calendarView"
		query.Set("startDateTime", start.UTC().Format("2006-01-02T15:04:05Z"))
		query.Set("endDateTime", end.UTC().Format("2006-01-02T15:04:05Z"))
	}
	return a.client.Do(ctx, http.MethodGet, path, query, nil, auth)
}

func (a *Actions) createEvent(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	payload, err := eventPayload(p, false)
	if err != nil {
		return nil, err
	}
	return a.client.Do(ctx, http.MethodPost, a.userPath(p)+"/events", nil, payload, auth)
}

func (a *Actions) createTeamsMeeting(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	payload, err := eventPayload(p, true)
	if err != nil {
		return nil, err
	}
	return a.client.Do(ctx, http.MethodPost, a.userPath(p)+"/events", nil, payload, auth)
}

func (a *Actions) updateEvent(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	values := p.Object("nuevos_valores")
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: 'nuevos_valores' must not be empty", domain.ErrInvalidArgument)
	}
	path := a.userPath(p) + "/events/" + url.PathEscape(p.String("evento_id", ""))
	return a.client.Do(ctx, http.MethodPatch, path, nil, values, auth)
}

func (a *Actions) deleteEvent(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := a.userPath(p) + "/events/" + url.PathEscape(p.String("evento_id", ""))
	if _, err := a.client.Do(ctx, http.MethodDelete, path, nil, nil, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Eliminado"}, nil
}

func eventPayload(p domain.Params, onlineMeeting bool) (map[string]any, error) {
	start, _ := p.Time("inicio")
	end, _ := p.Time("fin")
	if !end.After(start) {
		return nil, fmt.Errorf("%w: 'fin' must be after 'inicio'", domain.ErrInvalidArgument)
	}

	payload := map[string]any{
		"subject": p.String("titulo", ""),
		"start": map[string]any{
			"dateTime": start.UTC().Format(graphDateTime),
			"timeZone": "UTC",
		},
		"end": map[string]any{
			"dateTime": end.UTC().Format(graphDateTime),
			"timeZone": "UTC",
		},
		"showAs": p.String("mostrar_como", "busy"),
	}
	if body := p.String("cuerpo", ""); body != "" {
		payload["body"] = map[string]any{"contentType": "HTML", "content": body}
	}
	if location := p.String("ubicacion", ""); location != "" {
		payload["location"] = map[string]any{"displayName": location}
	}
	if p.Has("recordatorio_minutos") {
		payload["isReminderOn"] = true
		payload["reminderMinutesBeforeStart"] = p.Int("recordatorio_minutos", 0)
	}
	if onlineMeeting {
		payload["isOnlineMeeting"] = true
		payload["onlineMeetingProvider"] = "teamsForBusiness"
	}

	attendees, err := attendees(p["asistentes"])
	if err != nil {
		return nil, err
	}
	if len(attendees) > 0 {
		payload["attendees"] = attendees
	}
	return payload, nil
}

// attendees accepts a list of address strings or of already-shaped Graph
// attendee objects.
func attendees(value any) ([]any, error) {
	list, ok := value.([]any)
	if value == nil {
		return nil, nil
	}
	if !ok {
		if s, isString := value.(string); isString {
			list = []any{s}
		} else {
			return nil, fmt.Errorf("%w: 'asistentes' must be a list, got %T", domain.ErrInvalidArgument, value)
		}
	}

	out := make([]any, 0, len(list))
	for _, entry := range list {
		switch e := entry.(type) {
		case string:
			if strings.TrimSpace(e) == "" {
				continue
			}
			out = append(out, map[string]any{
				"emailAddress": map[string]any{"address": e},
				"type":         "required",
			})
		case map[string]any:
			out = append(out, e)
		default:
			return nil, fmt.Errorf("%w: attendee entries must be strings or objects, got %T", domain.ErrInvalidArgument, entry)
		}
	}
	return out, nil
}
