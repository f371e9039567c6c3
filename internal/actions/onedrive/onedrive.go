// Package onedrive registers the OneDrive file actions.
package onedrive

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

// Actions holds the OneDrive action handlers.
type Actions struct {
	client  *graphclient.Client
	mailbox string
}

// New creates the OneDrive actions bound to a Graph client and default drive
// owner.
func New(client *graphclient.Client, mailbox string) *Actions {
	return &Actions{client: client, mailbox: mailbox}
}

// Register adds all OneDrive actions to the registry.
func (a *Actions) Register(reg *services.ActionRegistry) error {
	mailboxParam := domain.ParamSpec{Name: "mailbox", Type: domain.TypeString}

	actions := []domain.Action{
		{
			Name:        "od_listar_archivos",
			Category:    "onedrive",
			Description: "List drive items under a folder path",
			Params: []domain.ParamSpec{
				{Name: "ruta", Type: domain.TypeString},
				{Name: "top", Type: domain.TypeInt},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.listFiles),
		},
		{
			Name:        "od_subir_archivo",
			Category:    "onedrive",
			Description: "Upload a file from base64 content",
			Params: []domain.ParamSpec{
				{Name: "ruta_destino", Type: domain.TypeString, Required: true},
				{Name: "contenido_base64", Type: domain.TypeString, Required: true},
				{Name: "content_type", Type: domain.TypeString},
				{Name: "conflicto", Type: domain.TypeString},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.uploadFile),
		},
		{
			Name:        "od_descargar_archivo",
			Category:    "onedrive",
			Description: "Download a file's content",
			Params: []domain.ParamSpec{
				{Name: "ruta", Type: domain.TypeString, Required: true},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.downloadFile),
		},
		{
			Name:        "od_eliminar_archivo",
			Category:    "onedrive",
			Description: "Delete a drive item",
			Params: []domain.ParamSpec{
				{Name: "ruta", Type: domain.TypeString, Required: true},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.deleteFile),
		},
		{
			Name:        "od_crear_carpeta",
			Category:    "onedrive",
			Description: "Create a folder under a parent path",
			Params: []domain.ParamSpec{
				{Name: "nombre", Type: domain.TypeString, Required: true},
				{Name: "ruta_padre", Type: domain.TypeString},
				{Name: "conflicto", Type: domain.TypeString},
				mailboxParam,
			},
			Handler: domain.AuthActionFunc(a.createFolder),
		},
	}

	for _, action := range actions {
		if err := reg.Register(action); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actions) drivePath(p domain.Params) string {
	return "/users/" + url.PathEscape(p.String("mailbox", a.mailbox)) + "/drive"
}

// itemPath builds a colon-addressed drive item path. An empty or "/" item
// path addresses the drive root, and a non-empty suffix is appended after
// the closing colon ("/root:/Docs/a.txt:/content").
func (a *Actions) itemPath(p domain.Params, item, suffix string) string {
	item = strings.Trim(item, "/")
	base := a.drivePath(p) + "/root"
	if item == "" {
		return base + suffix
	}
	segments := strings.Split(item, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + ":/" + strings.Join(segments, "/") + ":" + suffix
}

func (a *Actions) listFiles(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(min(p.Int("top", 100), 999)))
	path := a.itemPath(p, p.String("ruta", ""), "/children")
	return a.client.Do(ctx, http.MethodGet, path, query, nil, auth)
}

func (a *Actions) uploadFile(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	content, err := base64.StdEncoding.DecodeString(p.String("contenido_base64", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: 'contenido_base64' is not valid base64: %v", domain.ErrInvalidArgument, err)
	}
	query := url.Values{}
	query.Set("@microsoft.graph.conflictBehavior", p.String("conflicto", "rename"))
	path := a.itemPath(p, p.String("ruta_destino", ""), "/content")
	contentType := p.String("content_type", "application/octet-stream")
	return a.client.Put(ctx, path, query, content, contentType, auth)
}

func (a *Actions) downloadFile(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := a.itemPath(p, p.String("ruta", ""), "/content")
	bin, err := a.client.Download(ctx, path, nil, auth)
	if err != nil {
		return nil, err
	}
	return bin, nil
}

func (a *Actions) deleteFile(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	path := a.itemPath(p, p.String("ruta", ""), "")
	if _, err := a.client.Do(ctx, http.MethodDelete, path, nil, nil, auth); err != nil {
		return nil, err
	}
	return map[string]any{"status": "Eliminado"}, nil
}

func (a *Actions) createFolder(ctx context.Context, auth domain.AuthContext, p domain.Params) (any, error) {
	payload := map[string]any{
		"name":   p.String("nombre", ""),
		"folder": map[string]any{},
		"@microsoft.graph.conflictBehavior": p.String("conflicto", "rename"),
	}
	path := a.itemPath(p, p.String("ruta_padre", ""), "/children")
	return a.client.Do(ctx, http.MethodPost, path, nil, payload, auth)
}
