//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// ChannelType is the routing code identifying a notification channel.
// Codes match the receiver records written by the upstream alerting console.
type ChannelType int8

const (
	ChannelWebhook       ChannelType = 2
	ChannelWeWorkRobot   ChannelType = 4
	ChannelDingTalkRobot ChannelType = 5
	ChannelSlackWebhook  ChannelType = 8
	ChannelPagerDuty     ChannelType = 11
)

var channelNames = map[ChannelType]string{
	ChannelWebhook:       "webhook",
	ChannelWeWorkRobot:   "wework",
	ChannelDingTalkRobot: "dingtalk",
	ChannelSlackWebhook:  "slack",
	ChannelPagerDuty:     "pagerduty",
}

var channelDisplayNames = map[ChannelType]string{
	ChannelWebhook:       "Webhook",
	ChannelWeWorkRobot:   "WeWork",
	ChannelDingTalkRobot: "DingTalk",
	ChannelSlackWebhook:  "Slack",
	ChannelPagerDuty:     "PagerDuty",
}

// Valid returns true if the channel type is known.
func (c ChannelType) Valid() bool {
	_, ok := channelNames[c]
	return ok
}

// String returns the short channel name, or the numeric code for unknown types.
func (c ChannelType) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "channel_" + strconv.Itoa(int(c))
}

// DisplayName is the provider name shown in delivery errors, e.g. "WeWork".
func (c ChannelType) DisplayName() string {
	if name, ok := channelDisplayNames[c]; ok {
		return name
	}
	return "Channel " + strconv.Itoa(int(c))
}

// RequiresToken reports whether receivers of this type address the provider by access token.
func (c ChannelType) RequiresToken() bool {
	switch c {
	case ChannelWeWorkRobot, ChannelDingTalkRobot, ChannelPagerDuty:
		return true
	default:
		return false
	}
}

// RequiresURL reports whether receivers of this type carry their own endpoint URL.
func (c ChannelType) RequiresURL() bool {
	return c == ChannelWebhook || c == ChannelSlackWebhook
}

// ParseChannelType accepts either a channel name ("wework") or its numeric code ("4").
func ParseChannelType(raw string) (ChannelType, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("channel type is required")
	}
	for code, name := range channelNames {
		if name == s {
			return code, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown channel type %q", raw)
	}
	ct := ChannelType(n)
	if !ct.Valid() {
		return 0, fmt.Errorf("unknown channel type %q", raw)
	}
	return ct, nil
}

// ChannelTypes returns every known channel type in ascending code order.
func ChannelTypes() []ChannelType {
	return []ChannelType{
		ChannelWebhook,
		ChannelWeWorkRobot,
		ChannelDingTalkRobot,
		ChannelSlackWebhook,
		ChannelPagerDuty,
	}
}

// Scan implements sql.Scanner for SMALLINT columns.
func (c *ChannelType) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*c = ChannelType(v)
	case int32:
		*c = ChannelType(v)
	case int16:
		*c = ChannelType(v)
	case nil:
		*c = 0
	default:
		return fmt.Errorf("cannot scan %T into ChannelType", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (c ChannelType) Value() (driver.Value, error) {
	return int64(c), nil
}
