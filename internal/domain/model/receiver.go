//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// Alert receiver name constraints.
	minReceiverNameLen = 3
	maxReceiverNameLen = 512
	maxReceiverURILen  = 1024
	maxAccessTokenLen  = 256

	redactedToken = "***"
)

// AlertReceiver identifies where alerts for one channel are delivered.
type AlertReceiver struct {
	ID          string      `json:"id"                  db:"id"`
	Name        string      `json:"name"                db:"name"`
	Type        ChannelType `json:"type"                db:"type"`
	AccessToken string      `json:"access_token"        db:"access_token"`
	URL         string      `json:"url,omitempty"       db:"url"`
	Method      string      `json:"method,omitempty"    db:"method"`
	BodyExpr    *string     `json:"body_expr,omitempty" db:"body_expr"`
	Headers     *string     `json:"headers,omitempty"   db:"headers"`
	OkStatus    int         `json:"ok_status,omitempty" db:"ok_status"`
	Enabled     bool        `json:"enabled"             db:"enabled"`
	CreatedAt   time.Time   `json:"created_at"          db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"          db:"updated_at"`
}

// Redacted returns a copy safe to expose in API responses and logs.
func (r *AlertReceiver) Redacted() *AlertReceiver {
	if r == nil {
		return nil
	}
	out := *r
	if out.AccessToken != "" {
		out.AccessToken = redactedToken
	}
	if out.URL != "" {
		out.URL = RedactURL(out.URL)
	}
	return &out
}

// RedactURL masks the query values and any path beyond the host of a URL.
// Webhook URLs frequently embed credentials in either place.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return redactedToken
	}
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	if u.Path != "" && u.Path != "/" {
		b.WriteString("/" + redactedToken)
	}
	if u.RawQuery != "" {
		keys := make([]string, 0)
		for k := range u.Query() {
			keys = append(keys, k+"="+redactedToken)
		}
		sort.Strings(keys)
		b.WriteByte('?')
		b.WriteString(strings.Join(keys, "&"))
	}
	return b.String()
}

// ReceiverListOptions filters and paginates receiver listings.
type ReceiverListOptions struct {
	Type    *ChannelType
	Enabled *bool
	// NameContains matches receiver names case-insensitively.
	NameContains string
	Limit        int
	Offset       int
}

// CreateAlertReceiverRequest represents a request to create a new alert receiver.
type CreateAlertReceiverRequest struct {
	Name        string      `json:"name"`
	Type        ChannelType `json:"type"`
	AccessToken string      `json:"access_token"`
	URL         string      `json:"url,omitempty"`
	Method      string      `json:"method,omitempty"`
	BodyExpr    *string     `json:"body_expr,omitempty"`
	Headers     *string     `json:"headers,omitempty"`
	OkStatus    *int        `json:"ok_status,omitempty"`
	Enabled     *bool       `json:"enabled,omitempty"`
}

// UpdateAlertReceiverRequest represents a request to update an existing alert receiver.
// The channel type of a receiver is fixed once created.
type UpdateAlertReceiverRequest struct {
	Name        *string `json:"name,omitempty"`
	AccessToken *string `json:"access_token,omitempty"`
	URL         *string `json:"url,omitempty"`
	Method      *string `json:"method,omitempty"`
	BodyExpr    *string `json:"body_expr,omitempty"`
	Headers     *string `json:"headers,omitempty"`
	OkStatus    *int    `json:"ok_status,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// Normalize normalizes the CreateAlertReceiverRequest fields.
func (r *CreateAlertReceiverRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AccessToken = strings.TrimSpace(r.AccessToken)
	r.URL = strings.TrimSpace(r.URL)
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" && r.Type == ChannelWebhook {
		r.Method = "POST"
	}
}

// Validate validates the CreateAlertReceiverRequest fields.
func (r *CreateAlertReceiverRequest) Validate() error {
	if err := validateReceiverName(r.Name); err != nil {
		return err
	}

	if !r.Type.Valid() {
		return errors.New("type must be a supported channel type")
	}

	if r.Type.RequiresToken() {
		if err := validateAccessToken(r.AccessToken); err != nil {
			return err
		}
	}

	if r.Type.RequiresURL() {
		if err := validateReceiverURL(r.URL); err != nil {
			return err
		}
	}

	if r.Type == ChannelWebhook {
		if err := validateReceiverMethod(r.Method); err != nil {
			return err
		}
	}

	return validateOkStatus(r.OkStatus)
}

// Normalize normalizes the UpdateAlertReceiverRequest fields.
func (r *UpdateAlertReceiverRequest) Normalize() {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.Name = trim(r.Name)
	r.AccessToken = trim(r.AccessToken)
	r.URL = trim(r.URL)
	if r.Method != nil {
		m := strings.ToUpper(strings.TrimSpace(*r.Method))
		r.Method = &m
	}
}

// Validate validates the UpdateAlertReceiverRequest fields and ensures at least one field is being updated.
func (r *UpdateAlertReceiverRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}

	if r.Name != nil {
		if err := validateReceiverName(*r.Name); err != nil {
			return err
		}
	}

	if r.AccessToken != nil {
		if err := validateAccessToken(*r.AccessToken); err != nil {
			return err
		}
	}

	if r.URL != nil {
		if err := validateReceiverURL(*r.URL); err != nil {
			return err
		}
	}

	if r.Method != nil {
		if err := validateReceiverMethod(*r.Method); err != nil {
			return err
		}
	}

	return validateOkStatus(r.OkStatus)
}

// HasUpdates returns true if the UpdateAlertReceiverRequest has any fields to update.
func (r *UpdateAlertReceiverRequest) HasUpdates() bool {
	return r.Name != nil || r.AccessToken != nil || r.URL != nil || r.Method != nil ||
		r.BodyExpr != nil || r.Headers != nil || r.OkStatus != nil || r.Enabled != nil
}

func validateReceiverName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name is required and cannot be empty")
	}

	nameLen := utf8.RuneCountInString(trimmed)
	if nameLen < minReceiverNameLen {
		return errors.New("name must be at least 3 characters")
	}
	if nameLen > maxReceiverNameLen {
		return errors.New("name cannot exceed 512 characters")
	}

	return nil
}

func validateAccessToken(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return errors.New("access_token is required for this channel type")
	}
	if utf8.RuneCountInString(trimmed) > maxAccessTokenLen {
		return errors.New("access_token cannot exceed 256 characters")
	}
	if strings.ContainsAny(trimmed, "&?#/ ") {
		return errors.New("access_token contains invalid characters")
	}
	return nil
}

func validateReceiverURL(uri string) error {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return errors.New("url is required for this channel type")
	}

	if utf8.RuneCountInString(trimmed) > maxReceiverURILen {
		return errors.New("url cannot exceed 1024 characters")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return errors.New("url must be a valid URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url must use http or https scheme")
	}

	if parsed.Host == "" {
		return errors.New("url must have a valid host")
	}

	return nil
}

func validateReceiverMethod(method string) error {
	switch strings.TrimSpace(strings.ToUpper(method)) {
	case "POST", "PUT", "PATCH":
		return nil
	case "":
		return errors.New("method is required and cannot be empty")
	default:
		return errors.New("method must be one of: POST, PUT, PATCH")
	}
}

func validateOkStatus(okStatus *int) error {
	if okStatus != nil && (*okStatus < 100 || *okStatus > 599) {
		return errors.New("ok_status must be between 100 and 599")
	}
	return nil
}
