package dingtalk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

func newTestStrategy(t *testing.T, handler http.HandlerFunc) *Strategy {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewStrategy(Config{
		BaseURL: srv.URL + "/robot/send?access_token=",
		Renderer: notify.RendererFunc(func(name string, _ *model.AlarmContent) (string, error) {
			assert.Equal(t, TemplateName, name)
			return "#### disk full\n> /var at 99%", nil
		}),
	})
	require.NoError(t, err)
	return s
}

func receiver() *model.AlertReceiver {
	return &model.AlertReceiver{ID: "r1", Type: model.ChannelDingTalkRobot, AccessToken: "tok-1", Enabled: true}
}

func TestSendPostsMarkdown(t *testing.T) {
	var calls int
	s := newTestStrategy(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/robot/send", r.URL.Path)
		assert.Equal(t, "tok-1", r.URL.Query().Get("access_token"))

		var msg robotMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "markdown", msg.MsgType)
		assert.Equal(t, "disk full", msg.Markdown.Title)
		assert.Equal(t, "#### disk full\n> /var at 99%", msg.Markdown.Text)

		_, _ = io.WriteString(w, `{"errcode":0,"errmsg":"ok"}`)
	})

	err := s.Send(context.Background(), receiver(), &model.AlarmContent{Title: "disk full"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSendDefaultsTitle(t *testing.T) {
	s := newTestStrategy(t, func(w http.ResponseWriter, r *http.Request) {
		var msg robotMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "Alert", msg.Markdown.Title)
		_, _ = io.WriteString(w, `{"errcode":0}`)
	})

	require.NoError(t, s.Send(context.Background(), receiver(), &model.AlarmContent{Content: "body only"}))
}

func TestSendRejected(t *testing.T) {
	s := newTestStrategy(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"errcode":310000,"errmsg":"keywords not in content"}`)
	})

	err := s.Send(context.Background(), receiver(), &model.AlarmContent{Title: "x"})
	require.Error(t, err)
	de, ok := notify.AsDeliveryError(err)
	require.True(t, ok)
	assert.Equal(t, notify.KindProviderRejection, de.Kind)
	assert.Equal(t, 310000, de.ProviderCode)
	assert.Contains(t, err.Error(), "[DingTalk Notify Error]")
	assert.Contains(t, err.Error(), "keywords not in content")
}

func TestSendHTTPStatus(t *testing.T) {
	s := newTestStrategy(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := s.Send(context.Background(), receiver(), &model.AlarmContent{Title: "x"})
	assert.Equal(t, notify.KindHTTPStatus, notify.KindOf(err))
	assert.Contains(t, err.Error(), "503")
}

func TestSendRequiresToken(t *testing.T) {
	s := newTestStrategy(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})

	err := s.Send(context.Background(), &model.AlertReceiver{Type: model.ChannelDingTalkRobot}, &model.AlarmContent{Title: "x"})
	assert.Equal(t, notify.KindInvalidRequest, notify.KindOf(err))
}

func TestIdentity(t *testing.T) {
	s := newTestStrategy(t, func(http.ResponseWriter, *http.Request) {})
	assert.Equal(t, model.ChannelDingTalkRobot, s.Type())
	assert.Equal(t, "alertNotifyDingTalkRobot", s.TemplateName())
}
