package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

var textRenderer = notify.RendererFunc(func(_ string, a *model.AlarmContent) (string, error) {
	return "*" + a.Title + "*", nil
})

func TestNewStrategyValidation(t *testing.T) {
	_, err := NewStrategy(Config{})
	require.Error(t, err)
}

func TestSendPostsMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/T000/B000/XXX", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	s, err := NewStrategy(Config{Renderer: textRenderer, Channel: "#ops"})
	require.NoError(t, err)

	rcv := &model.AlertReceiver{ID: "s1", Type: model.ChannelSlackWebhook, URL: srv.URL + "/services/T000/B000/XXX"}
	require.NoError(t, s.Send(context.Background(), rcv, &model.AlarmContent{Title: "disk <full>"}))

	assert.Equal(t, "*disk <full>*", got["text"])
	assert.Equal(t, "alert-notify", got["username"])
	assert.Equal(t, "#ops", got["channel"])
}

func TestSendOmitsEmptyChannel(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := NewStrategy(Config{Renderer: textRenderer, Username: "pager"})
	require.NoError(t, err)

	rcv := &model.AlertReceiver{Type: model.ChannelSlackWebhook, URL: srv.URL}
	require.NoError(t, s.Send(context.Background(), rcv, &model.AlarmContent{Title: "x"}))
	assert.False(t, strings.Contains(raw, "channel"), raw)
	assert.Contains(t, raw, `"username":"pager"`)
}

func TestSendErrorStatusIncludesSlackCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "no_service")
	}))
	defer srv.Close()

	s, err := NewStrategy(Config{Renderer: textRenderer})
	require.NoError(t, err)

	err = s.Send(context.Background(), &model.AlertReceiver{Type: model.ChannelSlackWebhook, URL: srv.URL}, &model.AlarmContent{Title: "x"})
	require.Error(t, err)
	de, ok := notify.AsDeliveryError(err)
	require.True(t, ok)
	assert.Equal(t, notify.KindHTTPStatus, de.Kind)
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
	assert.Contains(t, err.Error(), "no_service")
	assert.Contains(t, err.Error(), "[Slack Notify Error]")
}

func TestSendRequiresURL(t *testing.T) {
	s, err := NewStrategy(Config{Renderer: textRenderer})
	require.NoError(t, err)

	err = s.Send(context.Background(), &model.AlertReceiver{Type: model.ChannelSlackWebhook}, &model.AlarmContent{Title: "x"})
	assert.Equal(t, notify.KindInvalidRequest, notify.KindOf(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abc", 2))
}
