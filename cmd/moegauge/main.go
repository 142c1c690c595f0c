package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/23skdu/moe-gauge/internal/config"
	"github.com/23skdu/moe-gauge/internal/estimate"
	"github.com/23skdu/moe-gauge/internal/export"
	"github.com/23skdu/moe-gauge/internal/logger"
	"github.com/23skdu/moe-gauge/internal/metrics"
	"github.com/23skdu/moe-gauge/internal/report"
)

var (
	configPath  = flag.String("config", "", "Path to JSON model config (defaults used when empty)")
	precision   = flag.String("precision", "", "Precision label; empty prompts interactively")
	sweep       = flag.Bool("sweep", false, "Estimate at every supported precision")
	arrowOut    = flag.String("arrow-out", "", "Write sweep results to an Arrow IPC file")
	metricsAddr = flag.String("metrics", "", "Address to serve Prometheus metrics (empty = disabled)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "console", "Log format: console or json")
)

func main() {
	flag.Parse()
	logger.Setup(*logLevel, *logFormat)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.FromFile(*configPath)
		if err != nil {
			metrics.ConfigLoadErrors.Inc()
			logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		logger.Info().Str("path", *configPath).Msg("loaded model config")
	} else {
		logger.Debug().Msg("no config given, using defaults")
	}

	if *metricsAddr != "" {
		go func() {
			logger.Info().Str("addr", *metricsAddr).Msg("serving metrics")
			if err := metrics.Serve(*metricsAddr); err != nil {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	calc := estimate.NewCalculator(cfg)

	if *sweep {
		results := calc.Sweep()
		for _, r := range results {
			metrics.Observe(r)
		}
		fmt.Print(report.RenderSweep(results))

		if *arrowOut != "" {
			if err := export.WriteFile(*arrowOut, results); err != nil {
				logger.Fatal().Err(err).Str("path", *arrowOut).Msg("arrow export failed")
			}
			logger.Info().Str("path", *arrowOut).Int("rows", len(results)).Msg("wrote arrow export")
		}
		return
	}

	p := resolvePrecision()
	result, err := calc.Estimate(p)
	if err != nil {
		logger.Fatal().Err(err).Str("precision", string(p)).Msg("estimate failed")
	}
	metrics.Observe(result)
	fmt.Print(report.Render(result))
}

// resolvePrecision turns flag or interactive input into a precision. An
// explicit --precision flag is strict; the lenient bfloat16 fallback on
// bad interactive input is deliberately confined to the prompt path so
// library callers and scripts get deterministic errors.
func resolvePrecision() estimate.Precision {
	if *precision != "" {
		p, err := estimate.ParsePrecision(*precision)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad --precision flag")
		}
		return p
	}

	fmt.Printf("Precision [%s] (default bfloat16): ", strings.Join(precisionLabels(), ", "))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return estimate.BFloat16
	}
	raw := strings.TrimSpace(line)
	if raw == "" {
		return estimate.BFloat16
	}

	p, perr := estimate.ParsePrecision(raw)
	if perr != nil {
		fmt.Printf("Unrecognized precision %q, falling back to bfloat16\n", raw)
		logger.Warn().Str("input", raw).Msg("unrecognized precision, using bfloat16")
		return estimate.BFloat16
	}
	return p
}

func precisionLabels() []string {
	ps := estimate.Precisions()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
