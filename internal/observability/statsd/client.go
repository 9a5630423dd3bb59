// Package statsd emits delivery metrics over UDP in the DogStatsD line format.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dialTimeout = 5 * time.Second

// Sink is the subset of StatsD the delivery recorder emits.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Config describes how to reach a StatsD-compatible agent.
type Config struct {
	Enabled bool
	Address string
	// Prefix is prepended to every metric name, e.g. "alertnotify".
	Prefix string
	// Tags are attached to every line; per-call tags win on conflict.
	Tags   map[string]string
	Logger *slog.Logger
}

// Client writes one datagram per metric. Writes are best effort and never block callers
// on a missing agent. It is safe for concurrent use.
type Client struct {
	prefix string
	tags   map[string]string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "#", "_", ",", "_")

// NewClient dials the agent. A disabled config or empty address yields a client that drops everything.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		prefix: cleanName(cfg.Prefix),
		tags:   cleanTags(cfg.Tags),
		logger: logger,
	}

	address := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || address == "" {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}
	c.conn = conn
	return c, nil
}

// Enabled reports whether lines are being sent.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Count adds value to a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the socket. Later writes are dropped.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line := c.line(name, value, kind, tags)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "error", err)
	}
}

// line renders "prefix.name:value|kind|#k:v,..." or "" for an empty name.
func (c *Client) line(name, value, kind string, tags map[string]string) string {
	metric := cleanName(name)
	if metric == "" {
		return ""
	}
	var b strings.Builder
	if c.prefix != "" {
		b.WriteString(c.prefix)
		b.WriteByte('.')
	}
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)
	writeTags(&b, c.tags, tags)
	return b.String()
}

func cleanName(name string) string {
	n := nameReplacer.Replace(strings.TrimSpace(name))
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}

func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if key := strings.TrimSpace(k); key != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}

func writeTags(b *strings.Builder, base, extra map[string]string) {
	merged := cleanTags(base)
	for k, v := range cleanTags(extra) {
		merged[k] = v
	}
	if len(merged) == 0 {
		return
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("|#")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
}
