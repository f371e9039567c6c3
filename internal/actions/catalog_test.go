package actions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/graph-actions/internal/actions/mail"
	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

type brokenRegistrar struct{}

func (brokenRegistrar) Register(*services.ActionRegistry) error {
	return errors.New("category exploded")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildRegistry_FullCatalog(t *testing.T) {
	reg, err := BuildRegistry(graphclient.New(), Config{Mailbox: "me", Version: "test"}, testLogger())

	require.NoError(t, err)
	names := reg.Names()

	// Every category must contribute.
	assert.Contains(t, names, "mail_listar")
	assert.Contains(t, names, "mail_enviar")
	assert.Contains(t, names, "cal_crear_evento")
	assert.Contains(t, names, "cal_crear_reunion_teams")
	assert.Contains(t, names, "od_subir_archivo")
	assert.Contains(t, names, "team_enviar_mensaje_canal")
	assert.Contains(t, names, "acciones_listar")
	assert.Contains(t, names, "version")
	assert.Equal(t, 23, reg.Len())
}

func TestRegisterCategories_SkipsFailingCategory(t *testing.T) {
	reg := services.NewActionRegistry()

	got, err := registerCategories(reg, []category{
		{"broken", brokenRegistrar{}},
		{"mail", mail.New(graphclient.New(), "me")},
	}, testLogger())

	require.NoError(t, err)
	assert.Contains(t, got.Names(), "mail_listar")
	assert.Equal(t, 6, got.Len(), "the surviving category registers in full")
}

func TestRegisterCategories_AllFailing(t *testing.T) {
	reg := services.NewActionRegistry()

	_, err := registerCategories(reg, []category{
		{"broken", brokenRegistrar{}},
	}, testLogger())

	assert.ErrorIs(t, err, domain.ErrNoActions)
}

func TestBuildRegistry_MetaActionsRunWithoutAuth(t *testing.T) {
	reg, err := BuildRegistry(graphclient.New(), Config{Mailbox: "me", Version: "1.2.3"}, testLogger())
	require.NoError(t, err)

	list, err := reg.Resolve("acciones_listar")
	require.NoError(t, err)
	result, err := services.ExecuteAction(context.Background(), list, domain.Params{}, domain.AuthContext{})
	require.NoError(t, err)
	body := result.(map[string]any)
	assert.Equal(t, reg.Len(), body["total"])
	assert.Equal(t, reg.Names(), body["acciones"])

	version, err := reg.Resolve("version")
	require.NoError(t, err)
	result, err = services.ExecuteAction(context.Background(), version, domain.Params{}, domain.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"version": "1.2.3"}, result)
}

func TestBuildRegistry_GraphActionsRequireAuth(t *testing.T) {
	reg, err := BuildRegistry(graphclient.New(), Config{Mailbox: "me"}, testLogger())
	require.NoError(t, err)

	for _, name := range reg.Names() {
		action, err := reg.Resolve(name)
		require.NoError(t, err)
		if action.Category == "meta" {
			_, plain := action.Handler.(domain.ActionFunc)
			assert.True(t, plain, "meta action %s must not require auth", name)
			continue
		}
		_, authed := action.Handler.(domain.AuthActionFunc)
		assert.True(t, authed, "action %s must declare an authenticated handler", name)
	}
}
