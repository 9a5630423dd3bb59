// Package webhook delivers alerts to arbitrary HTTP endpoints. The request body is
// derived from the alert with an optional JMESPath expression stored on the receiver.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

// TemplateName is the template rendered into the "message" field of the body document.
const TemplateName = "alertNotifyCustom"

const (
	defaultOkStatus = http.StatusOK
)

var tag = notify.ChannelTag(model.ChannelWebhook)

// Evaluator abstracts JMESPath operations for testability.
type Evaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathEvaluator implements Evaluator using go-jmespath.
type jmespathEvaluator struct{}

func (jmespathEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// DefaultEvaluator returns the go-jmespath backed evaluator.
func DefaultEvaluator() Evaluator { return jmespathEvaluator{} }

// Config captures runtime configuration for the webhook strategy.
type Config struct {
	Renderer  notify.Renderer
	Evaluator Evaluator
	Client    notify.HTTPDoer
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Strategy sends the alert to the receiver's own URL with its method, headers and body expression.
type Strategy struct {
	renderer notify.Renderer
	eval     Evaluator
	client   notify.HTTPDoer
	logger   *slog.Logger
}

var _ notify.Strategy = (*Strategy)(nil)

// NewStrategy builds a webhook strategy. A renderer is required.
func NewStrategy(cfg Config) (*Strategy, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("webhook: renderer is required")
	}
	eval := cfg.Evaluator
	if eval == nil {
		eval = jmespathEvaluator{}
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Strategy{
		renderer: cfg.Renderer,
		eval:     eval,
		client:   client,
		logger:   logger.With("component", "notify.webhook"),
	}, nil
}

// Type implements notify.Strategy.
func (s *Strategy) Type() model.ChannelType { return model.ChannelWebhook }

// TemplateName implements notify.Strategy.
func (s *Strategy) TemplateName() string { return TemplateName }

// Send renders the alert, derives the body and performs the receiver's request.
func (s *Strategy) Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error {
	if receiver == nil || alert == nil {
		return tag.Invalid("receiver and alert are required")
	}
	target := strings.TrimSpace(receiver.URL)
	if target == "" {
		return tag.Invalid("receiver has no url")
	}

	headers, err := ParseHeaders(receiver.Headers)
	if err != nil {
		return tag.Invalid(err.Error())
	}

	message, err := s.renderer.Render(TemplateName, alert)
	if err != nil {
		return tag.Rendering(err)
	}

	body, err := s.deriveBody(receiver.BodyExpr, alert, message)
	if err != nil {
		return tag.Encoding(err)
	}
	if _, ok := lookupHeader(headers, "Content-Type"); !ok {
		headers["Content-Type"] = "application/json"
	}

	method := strings.ToUpper(strings.TrimSpace(receiver.Method))
	if method == "" {
		method = http.MethodPost
	}

	s.logger.DebugContext(ctx, "sending custom webhook", "method", method, "url", model.RedactURL(target))
	resp, err := notify.Do(ctx, s.client, notify.Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return tag.Transport(err)
	}

	okStatus := receiver.OkStatus
	if okStatus == 0 {
		okStatus = defaultOkStatus
	}
	if resp.StatusCode != okStatus {
		return tag.Status(resp.StatusCode)
	}
	return nil
}

// Document returns the JSON document a body expression is evaluated against.
func Document(alert *model.AlarmContent, message string) (map[string]any, error) {
	raw, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("marshal alert: %w", err)
	}
	var alertDoc map[string]any
	if err := json.Unmarshal(raw, &alertDoc); err != nil {
		return nil, fmt.Errorf("decode alert document: %w", err)
	}
	return map[string]any{"alert": alertDoc, "message": message}, nil
}

func (s *Strategy) deriveBody(expr *string, alert *model.AlarmContent, message string) ([]byte, error) {
	doc, err := Document(alert, message)
	if err != nil {
		return nil, err
	}
	bExpr := strings.TrimSpace(ptrVal(expr))
	if bExpr == "" {
		return notify.EncodeJSON(doc)
	}
	res, err := s.eval.Evaluate(bExpr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate body JMESPath: %w", err)
	}
	b, err := notify.EncodeJSON(res)
	if err != nil {
		return nil, fmt.Errorf("marshal derived body: %w", err)
	}
	return b, nil
}

// ValidateReceiver checks the webhook specific fields a receiver carries: the body
// expression must compile and the headers must parse.
func ValidateReceiver(eval Evaluator, bodyExpr, headers *string) error {
	if eval == nil {
		eval = jmespathEvaluator{}
	}
	if expr := strings.TrimSpace(ptrVal(bodyExpr)); expr != "" {
		if err := eval.Validate(expr); err != nil {
			return fmt.Errorf("invalid body_expr JMESPath: %w", err)
		}
	}
	if _, err := ParseHeaders(headers); err != nil {
		return err
	}
	return nil
}

// ParseHeaders accepts either a JSON object or "Key: Value" lines.
func ParseHeaders(hs *string) (map[string]string, error) {
	s := strings.TrimSpace(ptrVal(hs))
	if s == "" {
		return make(map[string]string), nil
	}
	if strings.HasPrefix(s, "{") {
		return parseJSONHeaders(s)
	}
	return parseLineHeaders(s)
}

func parseJSONHeaders(s string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("invalid headers JSON: %w", err)
	}
	headers := make(map[string]string, len(raw))
	for k, v := range raw {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		headers[k] = headerValue(v)
	}
	return headers, nil
}

func headerValue(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case []any:
		parts := make([]string, 0, len(tv))
		for _, item := range tv {
			parts = append(parts, headerValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func parseLineHeaders(s string) (map[string]string, error) {
	headers := make(map[string]string)
	// Values may carry credentials, so errors name the line number only.
	for i, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header entry on line %d: expected \"Key: Value\"", i+1)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			return nil, fmt.Errorf("empty header name on line %d", i+1)
		}
		if existing, ok := headers[k]; ok && existing != "" {
			headers[k] = existing + ", " + v
		} else {
			headers[k] = v
		}
	}
	return headers, nil
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func ptrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
