package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/logger"
)

func TestTelegramAlerterDisabledWithoutToken(t *testing.T) {
	a := &TelegramAlerter{chatID: "42", log: logger.Discard()}
	assert.False(t, a.Enabled())
	a.Alert(context.Background(), "ignored", nil)
}

func TestTelegramAlerterPostsMessage(t *testing.T) {
	var got TelegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken-1/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	a := &TelegramAlerter{token: "token-1", chatID: "42", apiBase: srv.URL, http: srv.Client(), log: logger.Discard()}
	a.Alert(context.Background(), "Mall notification failed", map[string]string{"order_id": "o-1.2"})

	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "MarkdownV2", got.Parse)
	assert.Contains(t, got.Text, "*Mall notification failed*")
	assert.Contains(t, got.Text, `order\_id: o\-1\.2`)
}
