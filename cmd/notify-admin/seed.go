package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/target/mmk-alert-notify/internal/bootstrap"
	"github.com/target/mmk-alert-notify/internal/data"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/service"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML document accepted by seed-receivers.
//
//	receivers:
//	  - name: ops-wework
//	    type: wework
//	    access_token: ${WEWORK_KEY}
//	  - name: audit-hook
//	    type: webhook
//	    url: https://hooks.internal/alerts
//	    headers: {X-Team: ops}
type seedFile struct {
	Receivers []seedReceiver `yaml:"receivers"`
}

type seedReceiver struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	AccessToken string            `yaml:"access_token"`
	URL         string            `yaml:"url"`
	Method      string            `yaml:"method"`
	BodyExpr    string            `yaml:"body_expr"`
	Headers     map[string]string `yaml:"headers"`
	OkStatus    int               `yaml:"ok_status"`
	Enabled     *bool             `yaml:"enabled"`
}

type seedOptions struct {
	File    string
	DryRun  bool
	Timeout time.Duration
}

// receiverCreator is the part of ReceiverService the seeder needs.
type receiverCreator interface {
	Create(ctx context.Context, req *model.CreateAlertReceiverRequest) (*model.AlertReceiver, error)
}

func runSeedReceivers(cmdCtx *commandContext, args []string) error {
	opts := seedOptions{}
	fs := newFlagSet("seed-receivers", cmdCtx.Out)
	fs.StringVar(&opts.File, "f", "", "path to the receivers YAML file")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "validate the file without writing")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.File == "" {
		fs.Usage()
		return fmt.Errorf("%w: -f is required", errUsage)
	}

	raw, err := os.ReadFile(opts.File)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	reqs, err := parseSeedFile(raw)
	if err != nil {
		return err
	}
	if opts.DryRun {
		fmt.Fprintf(cmdCtx.Out, "%d receivers valid\n", len(reqs))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	svc := service.NewReceiverService(service.ReceiverServiceOptions{
		Repo:   data.NewReceiverRepo(db),
		Logger: cmdCtx.Logger,
	})
	return seedReceivers(ctx, svc, reqs, cmdCtx.Out)
}

// parseSeedFile decodes and validates every receiver before anything is written.
func parseSeedFile(raw []byte) ([]*model.CreateAlertReceiverRequest, error) {
	var doc seedFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(doc.Receivers) == 0 {
		return nil, errors.New("seed file has no receivers")
	}

	reqs := make([]*model.CreateAlertReceiverRequest, 0, len(doc.Receivers))
	var errs []error
	for i, r := range doc.Receivers {
		req, err := r.toRequest()
		if err == nil {
			req.Normalize()
			err = req.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("receiver %d (%q): %w", i, r.Name, err))
			continue
		}
		reqs = append(reqs, req)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reqs, nil
}

func (r seedReceiver) toRequest() (*model.CreateAlertReceiverRequest, error) {
	ct, err := model.ParseChannelType(r.Type)
	if err != nil {
		return nil, err
	}
	req := &model.CreateAlertReceiverRequest{
		Name:        r.Name,
		Type:        ct,
		AccessToken: r.AccessToken,
		URL:         r.URL,
		Method:      r.Method,
		Enabled:     r.Enabled,
	}
	if r.BodyExpr != "" {
		expr := r.BodyExpr
		req.BodyExpr = &expr
	}
	if len(r.Headers) > 0 {
		b, err := json.Marshal(r.Headers)
		if err != nil {
			return nil, fmt.Errorf("encode headers: %w", err)
		}
		h := string(b)
		req.Headers = &h
	}
	if r.OkStatus != 0 {
		status := r.OkStatus
		req.OkStatus = &status
	}
	return req, nil
}

func seedReceivers(
	ctx context.Context,
	svc receiverCreator,
	reqs []*model.CreateAlertReceiverRequest,
	out io.Writer,
) error {
	for _, req := range reqs {
		created, err := svc.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("create receiver %q: %w", req.Name, err)
		}
		fmt.Fprintf(out, "created %s %s (%s)\n", created.ID, created.Name, created.Type)
	}
	return nil
}
