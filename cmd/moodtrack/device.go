package main

import (
	"fmt"

	"go.uber.org/zap"

	"moodtrack/internal/adapter/alarmsvc"
	"moodtrack/internal/adapter/jobsched"
	"moodtrack/internal/adapter/location"
	"moodtrack/internal/adapter/memory"
	"moodtrack/internal/adapter/notify"
	"moodtrack/internal/adapter/platform"
	"moodtrack/internal/adapter/postgres"
	"moodtrack/internal/adapter/sqlite"
	"moodtrack/internal/app"
	"moodtrack/internal/clock"
	"moodtrack/internal/config"
	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
)

type store interface {
	domain.ActivityRepository
	domain.IngestRepository
	domain.PreferenceRepository
	Close() error
}

func openStore(cfg config.StoreConfig) (store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	case "postgres":
		return postgres.Open(cfg.DSN)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// device is the assembled application: platform adapters plus services.
type device struct {
	cfg   *config.Config
	log   *zap.Logger
	store store

	gate       *platform.Gate
	conditions *platform.Conditions
	tray       *notify.Tray
	alarms     *alarmsvc.Service
	jobs       *jobsched.Scheduler

	ingestJob  *app.BackgroundIngestJob
	settings   *app.SettingsService
	activities *app.ActivityService
	insights   *app.InsightsService
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newDevice(cfg *config.Config, log *zap.Logger) (*device, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	clk := clock.Real{}
	p := cfg.Platform
	d := &device{
		cfg:   cfg,
		log:   log,
		store: st,
		gate: platform.NewGate(p.APILevel, platform.Grants{
			ExactAlarms:    p.ExactAlarmsGranted,
			Notifications:  p.NotificationsGranted,
			FineLocation:   p.FineLocation,
			CoarseLocation: p.CoarseLocation,
		}),
		conditions: platform.NewConditions(platform.ConditionsSnapshot{
			BatteryLow:       p.BatteryLow,
			NetworkConnected: p.NetworkConnected,
		}),
		tray: notify.NewTray(log.Named("tray")),
	}

	fixes := location.NewStatic(clk)
	if cfg.Location.Enabled {
		fixes.SetFix(&domain.Location{
			Latitude:       cfg.Location.Latitude,
			Longitude:      cfg.Location.Longitude,
			AccuracyMeters: cfg.Location.AccuracyMeters,
		})
	}

	receiver := app.NewReminderReceiver(d.tray, d.gate, clk, cfg.HTTP.DeepLinkRoute, log.Named("receiver"))
	d.alarms = alarmsvc.New(clk, d.gate, d.conditions, receiver.OnAlarm, log.Named("alarms"))
	d.jobs = jobsched.New(d.conditions, log.Named("jobs"),
		jobsched.WithMinPeriod(cfg.Jobs.MinPeriod),
		jobsched.WithExecutionBudget(cfg.Jobs.ExecutionBudget),
	)

	d.ingestJob = app.NewBackgroundIngestJob(d.gate, fixes, st, log.Named("ingest"))
	reminders := app.NewReminderScheduler(d.alarms, d.gate, clk, loc, log.Named("reminders"))
	controller := app.NewJobController(d.jobs, d.ingestJob, log.Named("jobs"))
	d.settings = app.NewSettingsService(st, reminders, controller, d.gate, clk, loc, log.Named("settings"))
	d.activities = app.NewActivityService(st, clk)
	d.insights = app.NewInsightsService(st, clk, loc)
	return d, nil
}

func (d *device) Close() {
	d.jobs.Stop()
	if err := d.store.Close(); err != nil {
		d.log.Warn("failed to close store", zap.Error(err))
	}
}
