package main

import (
	"reflect"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/cairo"
	"github.com/NethermindEth/snip12/utils"
	"github.com/NethermindEth/snip12/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const (
	configF   = "config"
	logLevelF = "log-level"
	colourF   = "colour"
	formatF   = "format"

	defaultConfig   = ""
	defaultLogLevel = utils.WARN
	defaultColour   = true
	defaultFormat   = textFormat

	configFlagUsage   = "The YAML configuration file."
	logLevelFlagUsage = "Options: debug, info, warn, error."
	colourUsage       = "Use `--colour=false` command to disable colourized outputs (ANSI Escape Codes)."
	formatUsage       = "Output format. Options: text, json, yaml, table, cbor."

	envPrefix = "SNIP12"
)

// globalConfig holds the options shared by every subcommand.
type globalConfig struct {
	LogLevel utils.LogLevel `mapstructure:"log-level"`
	Colour   bool           `mapstructure:"colour"`
	Format   string         `mapstructure:"format" validate:"oneof=text json yaml table cbor"`
}

func NewCmd() *cobra.Command {
	snip12Cmd := &cobra.Command{
		Use:           "snip12",
		Short:         "Starknet typed data (SNIP-12) hashing tool.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	snip12Cmd.PersistentFlags().String(configF, defaultConfig, configFlagUsage)
	snip12Cmd.PersistentFlags().Var(utils.NewLogLevel(defaultLogLevel), logLevelF, logLevelFlagUsage)
	snip12Cmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)
	snip12Cmd.PersistentFlags().String(formatF, defaultFormat, formatUsage)

	snip12Cmd.AddCommand(HashCmd(), VerifyCmd(), TypeHashCmd(), SelectorCmd(), ShortStringCmd(), U256Cmd())
	return snip12Cmd
}

// loadConfig fills cfg from, in increasing order of precedence, the config file,
// SNIP12_ environment variables and command line flags, then validates it.
func loadConfig(cmd *cobra.Command, cfg any) error {
	v := viper.New()

	configFile, err := cmd.Flags().GetString(configF)
	if err != nil {
		return err
	}
	if configFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(configFile)
		if err = v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", configFile)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err = v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err = v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		feltDecodeHook,
	))); err != nil {
		return err
	}

	return validator.Validator().Struct(cfg)
}

var (
	feltType    = reflect.TypeOf(felt.Felt{})
	feltPtrType = reflect.TypeOf(&felt.Felt{})
)

// feltDecodeHook decodes hex or decimal strings into felts. An empty string
// leaves a *felt.Felt nil.
func feltDecodeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	s, ok := data.(string)
	if !ok {
		return data, nil
	}

	switch to {
	case feltPtrType:
		if s == "" {
			return nil, nil
		}
		return cairo.ParseFelt(s)
	case feltType:
		f, err := cairo.ParseFelt(s)
		if err != nil {
			return nil, err
		}
		return *f, nil
	}
	return data, nil
}

func newLogger(cfg *globalConfig) (utils.SimpleLogger, error) {
	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return log, nil
}
