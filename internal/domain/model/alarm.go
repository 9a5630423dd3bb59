//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxAlarmTitleLen   = 512
	maxAlarmContentLen = 16384
)

// AlarmLevel is the urgency of a fired alert, lowest value first.
type AlarmLevel uint8

const (
	AlarmLevelEmergency AlarmLevel = 0
	AlarmLevelCritical  AlarmLevel = 1
	AlarmLevelWarning   AlarmLevel = 2
	AlarmLevelInfo      AlarmLevel = 3
)

// String returns the lower-case level name.
func (l AlarmLevel) String() string {
	switch l {
	case AlarmLevelEmergency:
		return "emergency"
	case AlarmLevelCritical:
		return "critical"
	case AlarmLevelWarning:
		return "warning"
	case AlarmLevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Valid returns true if the level is one of the defined levels.
func (l AlarmLevel) Valid() bool {
	return l <= AlarmLevelInfo
}

// AlarmContent carries the fields of a fired alert that notification templates render.
// It is produced by the alerting engine and treated as an immutable value here.
type AlarmContent struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Level     AlarmLevel        `json:"level"`
	Labels    map[string]string `json:"labels,omitempty"`
	FiredAt   time.Time         `json:"fired_at"`
	UpdatedAt time.Time         `json:"updated_at,omitzero"`
}

// Validate checks the alert carries something worth rendering.
func (a *AlarmContent) Validate() error {
	if a == nil {
		return errors.New("alert is required")
	}
	title := strings.TrimSpace(a.Title)
	content := strings.TrimSpace(a.Content)
	if title == "" && content == "" {
		return errors.New("alert title or content is required")
	}
	if utf8.RuneCountInString(title) > maxAlarmTitleLen {
		return errors.New("alert title cannot exceed 512 characters")
	}
	if utf8.RuneCountInString(content) > maxAlarmContentLen {
		return errors.New("alert content cannot exceed 16384 characters")
	}
	if !a.Level.Valid() {
		return errors.New("alert level must be between 0 and 3")
	}
	return nil
}

// OccurredAt returns FiredAt, falling back to now for alerts without a timestamp.
func (a *AlarmContent) OccurredAt() time.Time {
	if a.FiredAt.IsZero() {
		return time.Now().UTC()
	}
	return a.FiredAt.UTC()
}
