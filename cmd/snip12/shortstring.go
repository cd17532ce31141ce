package main

import (
	"github.com/NethermindEth/snip12/cairo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	decodeF = "decode"

	decodeUsage = "Decode felts into short strings instead of encoding."
)

type shortStringConfig struct {
	Global globalConfig `mapstructure:",squash"`
	Decode bool         `mapstructure:"decode"`
}

type shortStringReport struct {
	Text string `json:"text" yaml:"text"`
	Felt string `json:"felt" yaml:"felt"`
}

func (r *shortStringReport) header() []string {
	return []string{"Text", "Felt"}
}

func (r *shortStringReport) values() []string {
	return []string{r.Text, r.Felt}
}

func ShortStringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "short-string VALUE...",
		Short: "Convert between Cairo short strings and felts",
		Long: `This subcommand packs ASCII strings of at most 31 characters into felts. With
--decode it unpacks hex or decimal felts back into strings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShortString,
	}

	cmd.Flags().Bool(decodeF, false, decodeUsage)
	return cmd
}

func runShortString(cmd *cobra.Command, args []string) error {
	cfg := new(shortStringConfig)
	if err := loadConfig(cmd, cfg); err != nil {
		return err
	}

	reports := make([]*shortStringReport, 0, len(args))
	for _, arg := range args {
		report, err := convertShortString(arg, cfg.Decode)
		if err != nil {
			return errors.Wrapf(err, "short string %q", arg)
		}
		reports = append(reports, report)
	}
	return writeReports(cmd.OutOrStdout(), cfg.Global.Format, reports)
}

func convertShortString(arg string, decode bool) (*shortStringReport, error) {
	if !decode {
		f, err := cairo.ShortStringToFelt(arg)
		if err != nil {
			return nil, err
		}
		return &shortStringReport{Text: arg, Felt: f.String()}, nil
	}

	f, err := cairo.ParseFelt(arg)
	if err != nil {
		return nil, err
	}
	text, err := cairo.FeltToShortString(f)
	if err != nil {
		return nil, err
	}
	return &shortStringReport{Text: text, Felt: f.String()}, nil
}
