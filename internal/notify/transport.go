package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// HTTPDoer is the transport client strategies post through; *http.Client satisfies it.
// Timeouts and connection pooling are the client's concern.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one outbound provider call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the status and body of a completed provider call.
type Response struct {
	StatusCode int
	Body       []byte
}

// EncodeJSON serializes v without HTML escaping so markdown and links pass through verbatim.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// PostJSON POSTs an already encoded JSON body to endpoint.
func PostJSON(ctx context.Context, client HTTPDoer, endpoint string, body []byte) (*Response, error) {
	return Do(ctx, client, Request{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
}

// Do performs the request and reads the (bounded) response body.
// Only transport-level failures are returned as errors; status interpretation is left to the caller.
func Do(ctx context.Context, client HTTPDoer, in Request) (*Response, error) {
	if client == nil {
		return nil, errors.New("http client is not configured")
	}
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, in.URL, bytes.NewReader(in.Body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", scrubURLError(err))
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, scrubURLError(err)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	closeErr := resp.Body.Close()
	if readErr != nil {
		if closeErr != nil {
			return nil, errors.Join(
				fmt.Errorf("read response body: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// scrubURLError drops the request URL from *url.Error values. Provider URLs carry
// credentials and the error text ends up in logs and API responses.
func scrubURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) || ue.Err == nil {
		return err
	}
	if ue.Timeout() {
		return fmt.Errorf("%s request timed out: %w", ue.Op, ue.Err)
	}
	return fmt.Errorf("%s request: %w", ue.Op, ue.Err)
}

// RobotAck is the acknowledgement envelope returned by chat-robot webhooks.
type RobotAck struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// CheckRobotAck validates a chat-robot response: the call succeeded only when the
// HTTP status is 200 and the body carries an errcode equal to successCode.
// The body of a non-200 response is not interpreted.
func CheckRobotAck(tag Tag, resp *Response, successCode int) error {
	if resp == nil {
		return tag.Malformed(errors.New("no response"))
	}
	if resp.StatusCode != http.StatusOK {
		return tag.Status(resp.StatusCode)
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return tag.Malformed(errors.New("empty response body"))
	}

	var ack RobotAck
	if err := json.Unmarshal(resp.Body, &ack); err != nil {
		return tag.Malformed(fmt.Errorf("decode acknowledgement: %w", err))
	}
	if ack.ErrCode == nil {
		return tag.Malformed(errors.New("acknowledgement has no errcode"))
	}
	if *ack.ErrCode != successCode {
		return tag.Rejected(*ack.ErrCode, ack.ErrMsg)
	}
	return nil
}
