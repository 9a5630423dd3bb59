package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelTypeNames(t *testing.T) {
	assert.Equal(t, "wework", ChannelWeWorkRobot.String())
	assert.Equal(t, "channel_42", ChannelType(42).String())
	assert.True(t, ChannelPagerDuty.Valid())
	assert.False(t, ChannelType(3).Valid())
	assert.Equal(t, ChannelType(4), ChannelWeWorkRobot)
}

func TestParseChannelType(t *testing.T) {
	tests := map[string]ChannelType{
		"wework":    ChannelWeWorkRobot,
		" WeWork ":  ChannelWeWorkRobot,
		"4":         ChannelWeWorkRobot,
		"dingtalk":  ChannelDingTalkRobot,
		"11":        ChannelPagerDuty,
		"webhook":   ChannelWebhook,
		"slack":     ChannelSlackWebhook,
		"pagerduty": ChannelPagerDuty,
	}
	for in, want := range tests {
		got, err := ParseChannelType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "email", "3", "999"} {
		_, err := ParseChannelType(bad)
		assert.Error(t, err, bad)
	}
}

func TestChannelRequirements(t *testing.T) {
	for _, ct := range ChannelTypes() {
		assert.True(t, ct.Valid())
		assert.NotEqual(t, ct.RequiresToken(), ct.RequiresURL(), ct.String())
	}
}

func TestChannelTypeScanValue(t *testing.T) {
	var ct ChannelType
	require.NoError(t, ct.Scan(int64(5)))
	assert.Equal(t, ChannelDingTalkRobot, ct)
	require.NoError(t, ct.Scan(int16(8)))
	assert.Equal(t, ChannelSlackWebhook, ct)
	assert.Error(t, ct.Scan("wework"))

	v, err := ChannelWeWorkRobot.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestChannelTypeDisplayName(t *testing.T) {
	assert.Equal(t, "WeWork", ChannelWeWorkRobot.DisplayName())
	assert.Equal(t, "DingTalk", ChannelDingTalkRobot.DisplayName())
	assert.Equal(t, "Slack", ChannelSlackWebhook.DisplayName())
	assert.Equal(t, "PagerDuty", ChannelPagerDuty.DisplayName())
	assert.Equal(t, "Webhook", ChannelWebhook.DisplayName())
	assert.Equal(t, "Channel 7", ChannelType(7).DisplayName())
	for _, ct := range ChannelTypes() {
		assert.NotEmpty(t, channelDisplayNames[ct], ct.String())
	}
}
