package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
)

type capturedRequest struct {
	method string
	path   string
	query  map[string]string
	body   map[string]any
}

// newGraphStub records the last request and answers with the given status
// and body.
func newGraphStub(t *testing.T, status int, responseBody string) (*Actions, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = map[string]string{}
		for k := range r.URL.Query() {
			captured.query[k] = r.URL.Query().Get(k)
		}
		captured.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&captured.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	client := graphclient.New(graphclient.WithBaseURL(server.URL))
	return New(client, "buzon@example.com"), captured
}

func auth() domain.AuthContext {
	return domain.NewAuthContext("tok")
}

func TestRegister_AllMailActions(t *testing.T) {
	actions, _ := newGraphStub(t, http.StatusOK, `{}`)
	reg := services.NewActionRegistry()

	require.NoError(t, actions.Register(reg))

	assert.Equal(t, []string{
		"mail_eliminar", "mail_enviar", "mail_leer",
		"mail_listar", "mail_reenviar", "mail_responder",
	}, reg.Names())
}

func TestList_DefaultsAndFolder(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusOK, `{"value":[]}`)

	_, err := actions.list(context.Background(), auth(), domain.Params{})

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, "/users/buzon@example.com/mailFolders/Inbox/messages", captured.path)
	assert.Equal(t, "10", captured.query["$top"])
	assert.Equal(t, "0", captured.query["$skip"])
}

func TestList_QueryOptions(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusOK, `{"value":[]}`)

	_, err := actions.list(context.Background(), auth(), domain.Params{
		"top":          25,
		"folder":       "SentItems",
		"select":       []any{"subject", "from"},
		"filter_query": "isRead eq false",
		"order_by":     "receivedDateTime desc",
		"mailbox":      "otro@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "/users/otro@example.com/mailFolders/SentItems/messages", captured.path)
	assert.Equal(t, "25", captured.query["$top"])
	assert.Equal(t, "subject,from", captured.query["$select"])
	assert.Equal(t, "isRead eq false", captured.query["$filter"])
	assert.Equal(t, "receivedDateTime desc", captured.query["$orderby"])
}

func TestRead_PathEscapesMessageID(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusOK, `{"id":"abc"}`)

	result, err := actions.read(context.Background(), auth(), domain.Params{"message_id": "AAMk/2=="})

	require.NoError(t, err)
	assert.Equal(t, "/users/buzon@example.com/messages/AAMk/2==", captured.path)
	msg, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", msg["id"])
}

func TestSend_SingleRecipientString(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusAccepted, ``)

	result, err := actions.send(context.Background(), auth(), domain.Params{
		"destinatario": "uno@example.com",
		"asunto":       "Hola",
		"mensaje":      "<p>contenido</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "Enviado"}, result)
	assert.Equal(t, "/users/buzon@example.com/sendMail", captured.path)

	message := captured.body["message"].(map[string]any)
	assert.Equal(t, "Hola", message["subject"])
	to := message["toRecipients"].([]any)
	require.Len(t, to, 1)
	assert.Equal(t, true, captured.body["saveToSentItems"])
}

func TestSend_RecipientListWithCcAndBcc(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusAccepted, ``)

	_, err := actions.send(context.Background(), auth(), domain.Params{
		"destinatario": []any{"uno@example.com", "dos@example.com"},
		"asunto":       "Hola",
		"mensaje":      "x",
		"cc":           []any{"tres@example.com"},
		"bcc":          "cuatro@example.com",
		"save_to_sent": false,
	})

	require.NoError(t, err)
	message := captured.body["message"].(map[string]any)
	assert.Len(t, message["toRecipients"], 2)
	assert.Len(t, message["ccRecipients"], 1)
	assert.Len(t, message["bccRecipients"], 1)
	assert.Equal(t, false, captured.body["saveToSentItems"])
}

func TestSend_InvalidRecipientShape(t *testing.T) {
	actions, _ := newGraphStub(t, http.StatusAccepted, ``)

	_, err := actions.send(context.Background(), auth(), domain.Params{
		"destinatario": float64(42),
		"asunto":       "Hola",
		"mensaje":      "x",
	})

	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSend_EmptyRecipientList(t *testing.T) {
	actions, _ := newGraphStub(t, http.StatusAccepted, ``)

	_, err := actions.send(context.Background(), auth(), domain.Params{
		"destinatario": []any{"   "},
		"asunto":       "Hola",
		"mensaje":      "x",
	})

	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestReply_DefaultAndReplyAll(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusAccepted, ``)

	result, err := actions.reply(context.Background(), auth(), domain.Params{
		"message_id":        "m1",
		"mensaje_respuesta": "gracias",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "Respondido"}, result)
	assert.Equal(t, "/users/buzon@example.com/messages/m1/reply", captured.path)
	assert.Equal(t, "gracias", captured.body["comment"])

	_, err = actions.reply(context.Background(), auth(), domain.Params{
		"message_id":        "m1",
		"mensaje_respuesta": "gracias a todos",
		"reply_all":         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/users/buzon@example.com/messages/m1/replyAll", captured.path)
}

func TestForward(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusAccepted, ``)

	result, err := actions.forward(context.Background(), auth(), domain.Params{
		"message_id":    "m1",
		"destinatarios": []any{"uno@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "Reenviado"}, result)
	assert.Equal(t, "/users/buzon@example.com/messages/m1/forward", captured.path)
	assert.Equal(t, "FYI", captured.body["comment"])
	assert.Len(t, captured.body["toRecipients"], 1)
}

func TestDelete(t *testing.T) {
	actions, captured := newGraphStub(t, http.StatusNoContent, ``)

	result, err := actions.delete(context.Background(), auth(), domain.Params{"message_id": "m1"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "Eliminado"}, result)
	assert.Equal(t, http.MethodDelete, captured.method)
	assert.Equal(t, "/users/buzon@example.com/messages/m1", captured.path)
}

func TestList_UpstreamErrorPropagates(t *testing.T) {
	actions, _ := newGraphStub(t, http.StatusForbidden, `{"error":{"code":"ErrorAccessDenied"}}`)

	_, err := actions.list(context.Background(), auth(), domain.Params{})

	require.ErrorIs(t, err, graphclient.ErrForbidden)
}

func TestRecipients(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected int
		wantErr  bool
	}{
		{name: "nil", value: nil, expected: 0},
		{name: "single string", value: "a@x.com", expected: 1},
		{name: "string slice", value: []string{"a@x.com", "b@x.com"}, expected: 2},
		{name: "any slice", value: []any{"a@x.com"}, expected: 1},
		{name: "blank entries skipped", value: []any{"a@x.com", "  "}, expected: 1},
		{name: "non-string entry", value: []any{7}, wantErr: true},
		{name: "number", value: 7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := recipients(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Len(t, out, tt.expected)
		})
	}
}
