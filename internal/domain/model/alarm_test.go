package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlarmContentValidate(t *testing.T) {
	tests := []struct {
		name    string
		alert   *AlarmContent
		wantErr string
	}{
		{"nil", nil, "alert is required"},
		{"empty", &AlarmContent{}, "title or content"},
		{"title only", &AlarmContent{Title: "disk full"}, ""},
		{"content only", &AlarmContent{Content: "body"}, ""},
		{"title too long", &AlarmContent{Title: strings.Repeat("x", 513)}, "512"},
		{"bad level", &AlarmContent{Title: "x", Level: 7}, "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alert.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAlarmLevelString(t *testing.T) {
	assert.Equal(t, "emergency", AlarmLevelEmergency.String())
	assert.Equal(t, "info", AlarmLevelInfo.String())
	assert.Equal(t, "unknown", AlarmLevel(9).String())
}

func TestOccurredAt(t *testing.T) {
	fired := time.Date(2026, 1, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	a := &AlarmContent{FiredAt: fired}
	assert.Equal(t, time.UTC, a.OccurredAt().Location())
	assert.True(t, a.OccurredAt().Equal(fired))

	empty := &AlarmContent{}
	assert.WithinDuration(t, time.Now(), empty.OccurredAt(), time.Second)
}
