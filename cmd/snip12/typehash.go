package main

import (
	"github.com/NethermindEth/snip12/typeddata"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	typeF = "type"

	typeUsage = "Name of the type to hash. Defaults to the primary type of the document."
)

type typeHashConfig struct {
	Global globalConfig `mapstructure:",squash"`
	Type   string       `mapstructure:"type"`
}

type typeHashReport struct {
	Type      string `json:"type" yaml:"type"`
	Signature string `json:"signature" yaml:"signature"`
	TypeHash  string `json:"type_hash" yaml:"type_hash"`
}

func (r *typeHashReport) header() []string {
	return []string{"Type", "Signature", "Type Hash"}
}

func (r *typeHashReport) values() []string {
	return []string{r.Type, r.Signature, r.TypeHash}
}

func TypeHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type-hash FILE",
		Short: "Compute the type hash of a type declared in a typed data document",
		Long: `This subcommand prints the encoded signature of a type, dependencies included,
together with its type hash. "-" reads the document from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: runTypeHash,
	}

	cmd.Flags().String(typeF, "", typeUsage)
	return cmd
}

func runTypeHash(cmd *cobra.Command, args []string) error {
	cfg := new(typeHashConfig)
	if err := loadConfig(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger(&cfg.Global)
	if err != nil {
		return err
	}

	td, err := readTypedData(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	name := cfg.Type
	if name == "" {
		primary := td.PrimaryType()
		if primary.Kind != typeddata.CustomType {
			return errors.Errorf("primary type %s is not a declared type", primary)
		}
		name = primary.Name
		log.Debugw("Using primary type", "type", name)
	}

	signature, err := td.Types().Signature(name)
	if err != nil {
		return errors.Wrapf(err, "type %s", name)
	}
	typeHash, err := td.Types().TypeHash(name)
	if err != nil {
		return errors.Wrapf(err, "type %s", name)
	}

	return writeReports(cmd.OutOrStdout(), cfg.Global.Format, []*typeHashReport{{
		Type:      name,
		Signature: signature,
		TypeHash:  typeHash.String(),
	}})
}
