package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/extratos/pkg/config"
	"github.com/yurifrl/extratos/pkg/metrics"
	"github.com/yurifrl/extratos/pkg/server"
	"github.com/yurifrl/extratos/pkg/service"
)

func main() {
	flags := pflag.NewFlagSet("extratos-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	config.RegisterFlags(flags)
	flags.String("addr", config.Default().Server.Addr, "Listen address")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "extratos-server",
		Level:           cfg.Level(),
	})

	m := metrics.New()
	processor := service.NewProcessor(cfg, logger, service.WithMetrics(m))
	srv := server.New(processor, m, logger)

	logger.Info("starting server", "addr", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
