package main

import (
	"github.com/NethermindEth/snip12/cairo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type selectorReport struct {
	Name     string `json:"name" yaml:"name"`
	Selector string `json:"selector" yaml:"selector"`
}

func (r *selectorReport) header() []string {
	return []string{"Name", "Selector"}
}

func (r *selectorReport) values() []string {
	return []string{r.Name, r.Selector}
}

func SelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector NAME...",
		Short: "Compute entry point selectors",
		Long:  `This subcommand prints the Starknet keccak selector of each entry point name.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSelector,
	}
}

func runSelector(cmd *cobra.Command, args []string) error {
	cfg := new(globalConfig)
	if err := loadConfig(cmd, cfg); err != nil {
		return err
	}

	reports := make([]*selectorReport, 0, len(args))
	for _, name := range args {
		selector, err := cairo.SelectorFromName(name)
		if err != nil {
			return errors.Wrapf(err, "selector %q", name)
		}
		reports = append(reports, &selectorReport{Name: name, Selector: selector.String()})
	}
	return writeReports(cmd.OutOrStdout(), cfg.Format, reports)
}
