// Package render turns alerts into channel message text using named text/template templates.
//
// Defaults for every channel are embedded in the binary. An override directory may replace
// any of them (or add new names) at start-up; templates are immutable afterwards.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"text/template"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

const templateExt = ".tmpl"

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// ErrTemplateNotFound is returned by Render for unknown template names.
var ErrTemplateNotFound = errors.New("template not found")

// Options configures a Store.
type Options struct {
	// OverrideDir holds <name>.tmpl files that replace or extend the embedded defaults.
	OverrideDir string
	// OverrideFS takes precedence over OverrideDir when set (tests).
	OverrideFS fs.FS
	Logger     *slog.Logger
}

// Store renders alerts with a fixed set of named templates. Safe for concurrent use.
type Store struct {
	t      *template.Template
	names  []string
	logger *slog.Logger
}

// NewStore parses the embedded templates and any overrides.
func NewStore(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "render")

	root := template.New("root").Funcs(Funcs()).Option("missingkey=zero")

	embedded, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}
	if _, err := parseDir(root, embedded); err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}

	overrides := opts.OverrideFS
	if overrides == nil && strings.TrimSpace(opts.OverrideDir) != "" {
		overrides = os.DirFS(opts.OverrideDir)
	}
	if overrides != nil {
		replaced, err := parseDir(root, overrides)
		if err != nil {
			logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "overrides"),
			)
			return nil, fmt.Errorf("parse template overrides: %w", err)
		}
		if len(replaced) > 0 {
			logger.Info("loaded template overrides", "templates", replaced)
		}
	}

	var names []string
	for _, tmpl := range root.Templates() {
		if name := tmpl.Name(); name != "root" {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	return &Store{t: root, names: names, logger: logger}, nil
}

func parseDir(root *template.Template, fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, "*"+templateExt)
	if err != nil {
		return nil, err
	}
	parsed := make([]string, 0, len(files))
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), templateExt)
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return nil, err
		}
		parsed = append(parsed, name)
	}
	return parsed, nil
}

// Render executes the named template against alert.
func (s *Store) Render(name string, alert *model.AlarmContent) (string, error) {
	if alert == nil {
		return "", errors.New("render: alert is required")
	}
	tmpl := s.t.Lookup(name)
	if tmpl == nil || name == "root" {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, alert); err != nil {
		s.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("execute template %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Names returns the available template names in sorted order.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

// Require reports every name in names that has no template.
func (s *Store) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if s.t.Lookup(name) == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, strings.Join(missing, ", "))
	}
	return nil
}
