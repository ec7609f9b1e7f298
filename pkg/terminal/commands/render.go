package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/runtime/terminal/export"
	"github.com/de-tools/salespulse/pkg/services/composer"
	"github.com/de-tools/salespulse/pkg/services/dataset"
	"github.com/de-tools/salespulse/pkg/services/navigation"
	"github.com/spf13/cobra"
)

type RenderCmd struct {
	tab      string
	subTab   string
	filters  []string
	currency string
	open     SourceOpener
	reporter *export.Reporter
}

func NewRenderCmd(open SourceOpener, reporter *export.Reporter) *cobra.Command {
	rc := &RenderCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the dashboard view for a selection",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.tab, "tab", string(domain.TabDescriptive), "Primary tab")
	cmd.Flags().StringVar(&rc.subTab, "subtab", "", "Descriptive sub-tab")
	cmd.Flags().StringArrayVar(&rc.filters, "filter", nil, "Filter as Key=Value, repeatable")
	cmd.Flags().StringVar(&rc.currency, "currency", "", "Currency prefix for money values")

	return cmd
}

// selection applies the flags to a fresh navigation state. The first
// invalid flag aborts with its selection error.
func (rc *RenderCmd) selection() (domain.Selection, error) {
	state := navigation.New()

	tab, err := domain.ParsePrimaryTab(rc.tab)
	if err != nil {
		return domain.Selection{}, err
	}
	if err := state.SetPrimaryTab(tab); err != nil {
		return domain.Selection{}, err
	}
	if rc.subTab != "" {
		sub, err := domain.ParseSecondaryTab(rc.subTab)
		if err != nil {
			return domain.Selection{}, err
		}
		if err := state.SetSecondaryTab(sub); err != nil {
			return domain.Selection{}, err
		}
	}

	for _, f := range rc.filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return domain.Selection{}, fmt.Errorf("filter %q must be Key=Value", f)
		}
		key, err := domain.ParseFilterKey(name)
		if err != nil {
			return domain.Selection{}, err
		}
		if err := state.SetFilter(key, value); err != nil {
			return domain.Selection{}, err
		}
	}
	return state.Snapshot(), nil
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sel, err := rc.selection()
	if err != nil {
		return err
	}

	src, err := rc.open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	rows, err := dataset.NewStoreLoader(src.Store).Load(ctx, sel)
	if err != nil {
		return err
	}
	view := composer.New(composer.Options{Currency: rc.currency}).Derive(sel, rows)

	return rc.reporter.Handle(sel, view)
}
