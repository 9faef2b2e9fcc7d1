package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/api"
	"github.com/groundsense/groundwatch/pkg/archive"
	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/config"
	"github.com/groundsense/groundwatch/pkg/db"
	"github.com/groundsense/groundwatch/pkg/ingest"
	"github.com/groundsense/groundwatch/pkg/lifecycle"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/notify"
)

func main() {
	configPath := flag.String("config", "/etc/groundwatch/groundwatch.json", "Path to config file")
	flag.Parse()

	// secrets live in .env during development; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// no logger yet; config errors are the only fatal kind
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)

	store, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open cold store")
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close cold store")
		}
	}()

	tier := cache.NewMemoryTier(cache.Config{
		SnapshotTTL:    time.Duration(cfg.Cache.SnapshotTTL),
		HistoryTTL:     time.Duration(cfg.Cache.HistoryTTL),
		HistoryDepth:   cfg.Cache.HistoryDepth,
		MoistureWindow: time.Duration(cfg.Cache.MoistureWindow),
		VibrationDepth: cfg.Cache.VibrationDepth,
	})

	ledger := alerting.NewLedger(time.Duration(cfg.Cache.AlertTTL))
	gate := alerting.NewCooldownGate(time.Duration(cfg.Cache.CooldownSeconds))

	var dispatcher *notify.Dispatcher

	if cfg.Mail.Endpoint != "" {
		mailer := notify.NewMailer(notify.MailerConfig{
			Endpoint:  cfg.Mail.Endpoint,
			APIKey:    cfg.Mail.APIKey,
			PerMinute: cfg.Mail.PerMinute,
		})
		dispatcher = notify.NewDispatcher(gate, mailer, cfg.Mail.From, cfg.Mail.To, log.Component("notify"))
	} else {
		log.Warn().Msg("mail endpoint not configured, alert notifications disabled")
	}

	pipeline := ingest.NewPipeline(tier, ledger, dispatcher, log.Component("ingest"))
	consumer := ingest.NewConsumer(cfg.MQTT, pipeline, log.Component("mqtt"))

	retention := time.Duration(cfg.Archive.RetentionDays) * 24 * time.Hour
	archiver := archive.NewArchiver(tier, store,
		time.Duration(cfg.Archive.Interval), retention, log.Component("archive"))

	apiServer := api.NewServer(cfg.ListenAddr, tier, ledger, log.Component("api"))

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("broker", cfg.MQTT.Broker).
		Msg("groundwatch starting")

	if err := lifecycle.Run(context.Background(), log, consumer, archiver, apiServer); err != nil {
		log.Fatal().Err(err).Msg("groundwatch exited with error")
	}
}
