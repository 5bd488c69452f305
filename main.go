package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/prebid/gpp-codec/cache"
	"github.com/prebid/gpp-codec/commands"
	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/logger"
	metricsConf "github.com/prebid/gpp-codec/metrics/config"
	"github.com/prebid/gpp-codec/section"
	"github.com/spf13/viper"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

const usage = `usage: gppcodec [flags] <command> [arguments]

commands:
  decode <gpp>                   print the sections of a GPP string as JSON
  encode [file]                  build a GPP string from JSON read from file or stdin
  batch [file]                   decode one GPP string per line of file or stdin
  patch <gpp> <merge-patch>      apply a JSON merge patch to the sections of a GPP string
  diff <gpp> <gpp>               show how two GPP strings differ
  validate <gpp> [sid]           check a GPP string and its SID list with the go-gpp parser
  tcf <gpp> <purpose> [vendor]   show what go-gdpr reads from the TCF EU v2 section
  version                        print the revision
`

var dumpMetrics = flag.Bool("metrics", false, "write the collected metrics to stderr on exit")

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}
	if err := setupLogger(cfg.Log, os.Stderr); err != nil {
		glog.Exitf("Logger could not be created: %v", err)
	}

	engine := metricsConf.NewMetricsEngine(cfg, sectionNames())
	deps := commands.Deps{
		Config:  cfg,
		Metrics: engine,
		Clock:   clock.New(),
	}

	err = run(deps, cache.New(cfg.Cache, engine), flag.Args(), os.Stdin, os.Stdout)
	if *dumpMetrics {
		if werr := engine.Write(os.Stderr); werr != nil {
			logger.Errorf("failed to write metrics: %v", werr)
		}
	}
	if err != nil {
		glog.Exitf("gppcodec failed: %v", err)
	}
}

const configFileName = "gppcodec"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func setupLogger(cfg config.Log, out io.Writer) error {
	if cfg.Backend != config.LogBackendLogrus {
		return nil
	}
	l, err := logger.NewLogrusLogger(out, cfg.Level)
	if err != nil {
		return err
	}
	logger.SetLogger(l)
	return nil
}

func sectionNames() []string {
	defs := section.All()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// run executes one subcommand. Warnings are logged and fatal errors returned.
func run(deps commands.Deps, c cache.Cache, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", usage)
	}
	command, args := args[0], args[1:]

	switch command {
	case "decode":
		if err := expectArgs(command, args, 1, 1); err != nil {
			return err
		}
		doc, err := commands.Decode(deps, args[0])
		if err != nil {
			return err
		}
		return writeLine(out, string(doc))

	case "encode":
		if err := expectArgs(command, args, 0, 1); err != nil {
			return err
		}
		doc, err := readInput(args, in)
		if err != nil {
			return err
		}
		encoded, errs := commands.Encode(deps, doc)
		if err := report(errs); err != nil {
			return err
		}
		return writeLine(out, encoded)

	case "batch":
		if err := expectArgs(command, args, 0, 1); err != nil {
			return err
		}
		src := in
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}
		return report(commands.Batch(deps, c, src, out))

	case "patch":
		if err := expectArgs(command, args, 2, 2); err != nil {
			return err
		}
		patched, errs := commands.Patch(deps, args[0], []byte(args[1]))
		if err := report(errs); err != nil {
			return err
		}
		return writeLine(out, patched)

	case "diff":
		if err := expectArgs(command, args, 2, 2); err != nil {
			return err
		}
		diff, err := commands.Diff(deps, args[0], args[1])
		if err != nil {
			return err
		}
		if diff == "" {
			logger.Infof("the strings carry the same sections")
			return nil
		}
		_, err = io.WriteString(out, diff)
		return err

	case "validate":
		if err := expectArgs(command, args, 1, 2); err != nil {
			return err
		}
		var sid string
		if len(args) == 2 {
			sid = args[1]
		}
		checked, errs := commands.Validate(deps, args[0], sid)
		if err := report(errs); err != nil {
			return err
		}
		return writeLine(out, "valid for sid "+checked)

	case "tcf":
		if len(args) < 2 {
			return fmt.Errorf("tcf expects a gpp string, a purpose and optional vendor ids")
		}
		ids, err := parseInts(args[1:])
		if err != nil {
			return err
		}
		doc, err := commands.TCF(deps, args[0], ids[0], ids[1:])
		if err != nil {
			return err
		}
		return writeLine(out, string(doc))

	case "version":
		rev := Rev
		if rev == "" {
			rev = "dev"
		}
		return writeLine(out, rev)
	}
	return fmt.Errorf("unknown command %q\n%s", command, usage)
}

func expectArgs(command string, args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		return fmt.Errorf("%s takes between %d and %d arguments. Got %d", command, min, max, len(args))
	}
	return nil
}

func readInput(args []string, in io.Reader) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(in)
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", arg)
		}
		out[i] = n
	}
	return out, nil
}

// report logs warnings and folds the fatal errors into one.
func report(errs []error) error {
	for _, warning := range errortypes.WarningOnly(errs) {
		logger.Warnf("%v", warning)
	}
	if fatal := errortypes.FatalOnly(errs); len(fatal) > 0 {
		return errortypes.NewAggregateErrors("command failed", fatal)
	}
	return nil
}

func writeLine(out io.Writer, s string) error {
	_, err := fmt.Fprintln(out, s)
	return err
}
