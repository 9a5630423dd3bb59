package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/target/mmk-alert-notify/internal/bootstrap"
)

func runListTemplates(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("list-templates", cmdCtx.Out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	renderer, err := bootstrap.BuildRenderer(cmdCtx.Config.Notify, cmdCtx.Logger)
	if err != nil {
		return err
	}
	registry, err := bootstrap.BuildRegistry(bootstrap.NotifyDeps{
		Config: cmdCtx.Config.Notify,
		Logger: cmdCtx.Logger,
	}, renderer)
	if err != nil {
		return err
	}

	usedBy := map[string][]string{}
	for ct, name := range registry.TemplateNames() {
		usedBy[name] = append(usedBy[name], ct.String())
	}

	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tCHANNELS")
	for _, name := range renderer.Names() {
		channels := usedBy[name]
		slices.Sort(channels)
		list := "-"
		if len(channels) > 0 {
			list = fmt.Sprint(channels)
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, list)
	}
	return tw.Flush()
}
