package main

import (
	"io"
	"slices"

	"github.com/NethermindEth/snip12/encoder"
	"github.com/NethermindEth/snip12/utils"
	"github.com/pkg/errors"
	conciter "github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

const (
	statusOK     = "OK"
	statusFailed = "FAILED"
)

var errVerifyFailed = errors.New("hashes do not match")

type verifyReport struct {
	File   string `json:"file" yaml:"file"`
	Status string `json:"status" yaml:"status"`
}

func (r *verifyReport) header() []string {
	return []string{"File", "Status"}
}

func (r *verifyReport) values() []string {
	return []string{r.File, r.Status}
}

func VerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify REPORT",
		Short: "Check the hashes of a CBOR hash report against its documents",
		Long: `This subcommand reads a report written by "hash --format cbor" and hashes every
document it names again. Reports written with --breakdown are checked field by field.
"-" reads the report from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().String(addressF, "", addressUsage)
	cmd.Flags().String(chainIDF, "", chainIDUsage)
	cmd.Flags().Int(maxGoroutinesF, defaultMaxGoroutines, maxGoroutinesUsage)
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := new(hashConfig)
	if err := loadConfig(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger(&cfg.Global)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	var recorded []*hashReport
	if err = encoder.Unmarshal(data, &recorded); err != nil {
		return errors.Wrapf(err, "decode %s", args[0])
	}
	log.Infow("Verifying report", "report", args[0], "documents", len(recorded))

	ctx := cmd.Context()
	stdin := cmd.InOrStdin()
	mapper := conciter.Mapper[*hashReport, *verifyReport]{MaxGoroutines: cfg.MaxGoroutines}
	reports, err := mapper.MapErr(recorded, func(want **hashReport) (*verifyReport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return verifyDocument(stdin, *want, cfg, log)
	})
	if err != nil {
		return err
	}

	if err = writeReports(cmd.OutOrStdout(), cfg.Global.Format, reports); err != nil {
		return err
	}
	failed := utils.Filter(reports, func(r *verifyReport) bool { return r.Status == statusFailed })
	if len(failed) > 0 {
		return errors.Wrapf(errVerifyFailed, "%d of %d documents", len(failed), len(reports))
	}
	return nil
}

func verifyDocument(stdin io.Reader, want *hashReport, cfg *hashConfig, log utils.SimpleLogger) (*verifyReport, error) {
	docCfg := *cfg
	docCfg.Breakdown = want.DomainHash != ""

	got, err := hashDocument(stdin, want.File, &docCfg, log)
	if err != nil {
		return nil, err
	}

	report := &verifyReport{File: want.File, Status: statusOK}
	if !got.matches(want) {
		log.Warnw("Hash mismatch", "file", want.File, "recorded", want.Hash, "computed", got.Hash)
		report.Status = statusFailed
	}
	return report, nil
}

func (r *hashReport) matches(o *hashReport) bool {
	return r.File == o.File &&
		r.Hash == o.Hash &&
		r.DomainHash == o.DomainHash &&
		r.TypeHash == o.TypeHash &&
		r.MessageHash == o.MessageHash &&
		slices.Equal(r.FieldHashes, o.FieldHashes)
}
