package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/typeddata"
	"github.com/NethermindEth/snip12/utils"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	conciter "github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

const (
	addressF       = "address"
	chainIDF       = "chain-id"
	breakdownF     = "breakdown"
	maxGoroutinesF = "max-goroutines"

	defaultBreakdown     = false
	defaultMaxGoroutines = 4

	stdinPath = "-"

	addressUsage       = "The account address the message is signed for."
	chainIDUsage       = "Reject documents whose domain is not bound to this chain id."
	breakdownUsage     = "Also print the domain, type and message hashes and the hash of every message field."
	maxGoroutinesUsage = "Maximum number of documents hashed concurrently."
)

var (
	errStdinTwice      = errors.New("standard input can only be read once")
	errChainIDMismatch = errors.New("chain id mismatch")
)

type hashConfig struct {
	Global        globalConfig `mapstructure:",squash"`
	Address       *felt.Felt   `mapstructure:"address" validate:"required,contract_address"`
	ChainID       string       `mapstructure:"chain-id" validate:"omitempty,shortstring"`
	Breakdown     bool         `mapstructure:"breakdown"`
	MaxGoroutines int          `mapstructure:"max-goroutines" validate:"min=1"`
}

type hashReport struct {
	File        string   `json:"file" yaml:"file"`
	Hash        string   `json:"hash" yaml:"hash"`
	DomainHash  string   `json:"domain_hash,omitempty" yaml:"domain_hash,omitempty"`
	TypeHash    string   `json:"type_hash,omitempty" yaml:"type_hash,omitempty"`
	MessageHash string   `json:"message_hash,omitempty" yaml:"message_hash,omitempty"`
	FieldHashes []string `json:"field_hashes,omitempty" yaml:"field_hashes,omitempty"`

	breakdown bool
}

func (r *hashReport) header() []string {
	if !r.breakdown {
		return []string{"File", "Hash"}
	}
	return []string{"File", "Hash", "Domain Hash", "Type Hash", "Message Hash", "Field Hashes"}
}

func (r *hashReport) values() []string {
	if !r.breakdown {
		return []string{r.File, r.Hash}
	}
	return []string{r.File, r.Hash, r.DomainHash, r.TypeHash, r.MessageHash, strings.Join(r.FieldHashes, ",")}
}

func HashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [files...]",
		Short: "Compute the message hash of typed data documents",
		Long: `This subcommand reads SNIP-12 typed data documents and prints the hash an account
signs for each of them. A file named "-" or no file at all reads standard input.`,
		RunE: runHash,
	}

	cmd.Flags().String(addressF, "", addressUsage)
	cmd.Flags().String(chainIDF, "", chainIDUsage)
	cmd.Flags().Bool(breakdownF, defaultBreakdown, breakdownUsage)
	cmd.Flags().Int(maxGoroutinesF, defaultMaxGoroutines, maxGoroutinesUsage)
	return cmd
}

func runHash(cmd *cobra.Command, args []string) error {
	cfg := new(hashConfig)
	if err := loadConfig(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger(&cfg.Global)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{stdinPath}
	}
	if countStdin(args) > 1 {
		return errStdinTwice
	}

	ctx := cmd.Context()
	stdin := cmd.InOrStdin()
	mapper := conciter.Mapper[string, *hashReport]{MaxGoroutines: cfg.MaxGoroutines}
	reports, err := mapper.MapErr(args, func(path *string) (*hashReport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return hashDocument(stdin, *path, cfg, log)
	})
	if err != nil {
		return err
	}

	return writeReports(cmd.OutOrStdout(), cfg.Global.Format, reports)
}

func hashDocument(stdin io.Reader, path string, cfg *hashConfig, log utils.SimpleLogger) (*hashReport, error) {
	td, err := readTypedData(stdin, path)
	if err != nil {
		return nil, err
	}

	log.Debugw("Parsed typed data", "file", path, "revision", td.Revision(), "primaryType", td.PrimaryType().String())
	if cfg.Global.LogLevel == utils.DEBUG {
		log.Debugw("Message", "file", path, "value", spew.Sdump(td.Message()))
	}
	if chainID := td.Domain().ChainID; cfg.ChainID != "" && chainID != cfg.ChainID {
		return nil, errors.Wrapf(errChainIDMismatch, "%s: got %s, expecting %s", path, chainID, cfg.ChainID)
	}

	report := &hashReport{File: path, breakdown: cfg.Breakdown}
	if !cfg.Breakdown {
		hash, err := td.MessageHash(cfg.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "hash %s", path)
		}
		report.Hash = hash.String()
		return report, nil
	}

	hashes, err := td.Hashes(cfg.Address)
	if err != nil {
		return nil, errors.Wrapf(err, "hash %s", path)
	}
	report.Hash = hashes.Hash.String()
	report.DomainHash = hashes.DomainHash.String()
	report.TypeHash = hashes.TypeHash.String()
	report.MessageHash = hashes.MessageHash.String()
	report.FieldHashes = utils.Map(hashes.FieldHashes, (*felt.Felt).String)
	return report, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func readTypedData(stdin io.Reader, path string) (*typeddata.TypedData, error) {
	data, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}

	td := new(typeddata.TypedData)
	if err = json.Unmarshal(data, td); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return td, nil
}

func countStdin(paths []string) int {
	return len(utils.Filter(paths, func(path string) bool { return path == stdinPath }))
}
