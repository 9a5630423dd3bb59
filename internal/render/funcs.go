package render

import (
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// Label is one key/value pair of an alert's labels.
type Label struct {
	Key   string
	Value string
}

// Funcs returns the helper functions available to every notification template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatTime":   formatTime,
		"upper":        strings.ToUpper,
		"sortedLabels": sortedLabels,
		"levelColor":   levelColor,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func sortedLabels(labels map[string]string) []Label {
	out := make([]Label, 0, len(labels))
	for k, v := range labels {
		out = append(out, Label{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Label) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// levelColor maps a level to a WeWork markdown font color.
func levelColor(level model.AlarmLevel) string {
	switch level {
	case model.AlarmLevelEmergency, model.AlarmLevelCritical:
		return "warning"
	case model.AlarmLevelWarning:
		return "comment"
	default:
		return "info"
	}
}
