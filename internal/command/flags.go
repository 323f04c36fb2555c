// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewGlobalFlags returns the output flags carried by every leaf command.
// params[0] is the config namespace, usually the top level command name.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewClientFlags returns the root flags that shape the service client. The
// defaults come from s, which already folds in the config file and env.
func NewClientFlags(s config.Settings) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "base URL of the finance service",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar(config.APIURLEnv),
			),
			Value: s.APIURL,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, URLValidator)
			},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "bound on every request to the service",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("api.timeout", altsrc.StringSourcer(cfg.Source)),
			),
			Value: s.Timeout,
		},
		&cli.DurationFlag{
			Name:  "cache-window",
			Usage: "how long cached reads stay fresh",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache.window", altsrc.StringSourcer(cfg.Source)),
			),
			Value: s.CacheWindow,
		},
		&cli.BoolFlag{
			Name:        "no-cache",
			Usage:       "send every read to the service",
			Value:       !s.CacheEnabled,
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve Prometheus metrics on this address while watching",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("FINTRACK_METRICS_ADDR"),
				yaml.YAML("metrics.addr", altsrc.StringSourcer(cfg.Source)),
			),
		},
	}
}

// newIDFlag is the --id flag used by get, update and delete.
func newIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    "identifier of the record",
		Required: true,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
		},
	}
}

func newTypeFlag(usage string, required bool, validator FlagValidatorType) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "type",
		Usage:    usage,
		Required: required,
		Validator: func(value string) error {
			return FlagValidators(value, validator)
		},
	}
}

func newDivisionFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "division",
		Usage:    "PERSONAL or OFFICE",
		Required: required,
		Validator: func(value string) error {
			return FlagValidators(value, DivisionValidator)
		},
	}
}

func newAmountFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "amount",
		Usage:    "amount in rupees",
		Required: required,
		Validator: func(value string) error {
			return FlagValidators(value, AmountValidator)
		},
	}
}

func newDateFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "date",
		Usage: usage,
		Validator: func(value string) error {
			return FlagValidators(value, DateValidator)
		},
	}
}
