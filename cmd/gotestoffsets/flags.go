package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wallarm/gotestoffsets/internal/config"
	"github.com/wallarm/gotestoffsets/internal/report"
	"github.com/wallarm/gotestoffsets/internal/version"
)

const (
	textLogFormat = "text"
	jsonLogFormat = "json"
)

var (
	logFormatsSet = map[string]any{
		textLogFormat: nil,
		jsonLogFormat: nil,
	}
	logFormats = slices.Collect(maps.Keys(logFormatsSet))
)

const (
	maxReportFilenameLength = 249 // 255 (max length) - 5 (".xlsx") - 1 (to be sure)

	defaultURL        = "http://127.0.0.1:8088"
	defaultReportPath = "/tmp/twcmanager-tests"
	defaultReportName = "consumptionOffsets"
	defaultConfigPath = "config.yaml"
)

const cliDescription = `GoTestOffsets checks the consumption offsets API of an energy management
service: it creates, updates and lists offsets and verifies every answer.

Usage: %s [OPTIONS] [--url <URL>]

Options:
`

var (
	configPath string
	quiet      bool
	logLevel   logrus.Level
	logFormat  string

	isConfigPathFlagUsed bool
)

var usage = func() {
	flag.CommandLine.SetOutput(os.Stdout)
	usage := cliDescription
	fmt.Fprintf(os.Stdout, usage, os.Args[0])
	flag.PrintDefaults()
}

// parseFlags parses all GoTestOffsets CLI flags
func parseFlags() (args []string, err error) {
	flag.Usage = usage

	// General parameters
	flag.StringVar(&configPath, "configPath", defaultConfigPath, "Path to the config file")
	flag.BoolVar(&quiet, "quiet", false, "If present, disable verbose logging")
	logLvl := flag.String("logLevel", "info", "Logging level: panic, fatal, error, warn, info, debug, trace")
	flag.StringVar(&logFormat, "logFormat", textLogFormat, "Set logging format: "+strings.Join(logFormats, ", "))
	showVersion := flag.Bool("version", false, "Show GoTestOffsets version and exit")

	// Target settings
	urlParam := flag.String("url", defaultURL, "Base URL of the API to check")
	flag.String("openapiFile", "", "Path to an OpenAPI file describing the API, the built-in description is used if empty")

	// Scenario settings
	flag.Int64("seed", 0, "Seed of the fixture generator, 0 means a time based seed")
	flag.Bool("skipLongName", false, "If present, the oversized offset name case is not sent and reported as not run")

	// HTTP client settings
	flag.Bool("tlsVerify", false, "If present, the received TLS certificate will be verified")
	flag.String("proxy", "", "Proxy URL to use, environment proxy settings are ignored")
	flag.String("addHeader", "", "An HTTP header to add to requests")
	flag.Duration("requestTimeout", 30*time.Second, "Timeout of every API call")
	flag.Int("maxIdleConns", 2, "The maximum number of keep-alive connections")
	flag.Int("idleConnTimeout", 2, "The maximum amount of time in seconds a keep-alive connection will live")

	// Analysis settings
	flag.Duration("maxLatency", 2*time.Second, "The longest an API call may take to still pass")
	flag.Duration("settleDelay", 2*time.Second, "Pause after the malformed request before the baseline listing is taken")
	flag.Bool("skipFailure", true, "If true, failed tests are reported but the exit code stays 0")
	flag.Bool("skipSchemaCheck", false, "If present, listings are not checked against the OpenAPI description")

	// Report settings
	flag.String("reportPath", defaultReportPath, "A directory to store reports")
	reportName := flag.String("reportName", defaultReportName, "Report file name without extension, reports are appended to it")
	reportFormat := flag.StringSlice("reportFormat", []string{report.JsonFormat}, "Export report in the following formats: "+strings.Join(report.ReportFormats, ", "))

	flag.Parse()

	// show version and exit
	if *showVersion {
		fmt.Fprintf(os.Stderr, "GoTestOffsets %s\n", version.Version)
		os.Exit(0)
	}

	logrusLogLvl, err := logrus.ParseLevel(*logLvl)
	if err != nil {
		return nil, err
	}
	logLevel = logrusLogLvl

	if err = validateLogFormat(logFormat); err != nil {
		return nil, err
	}

	if err = report.ValidateReportFormat(*reportFormat); err != nil {
		return nil, err
	}

	validURL, err := validateURL(*urlParam, httpProto)
	if err != nil {
		return nil, errors.Wrap(err, "URL is not valid")
	}
	*urlParam = strings.TrimSuffix(validURL.String(), "/")

	_, reportFileName := filepath.Split(*reportName)
	if len(reportFileName) > maxReportFilenameLength {
		return nil, errors.New("report filename too long")
	}

	checkUsedFlags()

	args, err = normalizeArgs()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't normalize args")
	}

	return args, nil
}

func checkUsedFlags() {
	fn := func(f *flag.Flag) {
		if f.Name == "configPath" {
			isConfigPathFlagUsed = f.Changed
		}
	}

	flag.Visit(fn)
}

// normalizeArgs returns string with used CLI args in a unified from.
func normalizeArgs() ([]string, error) {
	// disable lexicographical order
	flag.CommandLine.SortFlags = false

	var (
		args []string
		err  error
	)

	fn := func(f *flag.Flag) {
		// skip if flag wasn't changed
		if !f.Changed {
			return
		}

		var (
			value string
			arg   string
		)

		// all types listed in parseFlags function
		argType := f.Value.Type()
		switch argType {
		case "string":
			value = strings.TrimSpace(f.Value.String())

			if strings.Contains(value, " ") {
				value = `"` + value + `"`
			}

			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		case "stringSlice":
			// remove square brackets: [json,xlsx] -> json,xlsx
			value = strings.Trim(f.Value.String(), "[]")
			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		case "bool":
			arg = fmt.Sprintf("--%s=%s", f.Name, f.Value.String())

		case "int", "int64", "duration":
			value = f.Value.String()
			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		default:
			err = multierror.Append(err, fmt.Errorf("unknown CLI argument type: %s", argType))
		}

		args = append(args, arg)
	}

	// get all changed flags
	flag.Visit(fn)

	if err != nil {
		return nil, err
	}

	return args, nil
}

// loadConfig loads the specified config file and merges it with the parameters
// passed via CLI. The default config file is optional.
func loadConfig() (cfg *config.Config, err error) {
	err = viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}
	viper.AddConfigPath(".")
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	_, statErr := os.Stat(configPath)
	if statErr == nil || isConfigPathFlagUsed {
		err = viper.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
