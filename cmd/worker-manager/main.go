package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "booking-workers/internal/common/aws"
	"booking-workers/internal/common/camunda"
	"booking-workers/internal/common/config"
	"booking-workers/internal/common/database"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/observability"
	"booking-workers/internal/identity"
	"booking-workers/internal/intake"
	"booking-workers/internal/records"
	"booking-workers/internal/submission"

	fr "booking-workers/internal/workers/dashboard/filter-records"
	ceu "booking-workers/internal/workers/intake/check-email-uniqueness"
	nbr "booking-workers/internal/workers/intake/notify-booking-request"
	sbr "booking-workers/internal/workers/intake/submit-booking-request"
	vbr "booking-workers/internal/workers/intake/validate-booking-request"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "worker manager:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, log)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	for name, pingErr := range database.CheckAll(ctx, 5*time.Second, pg, rdb, es) {
		if pingErr != nil {
			// lib/pq, go-redis and the ES client all reconnect lazily
			log.Warn("dependency not reachable at startup", map[string]interface{}{
				"dependency": name,
				"error":      pingErr.Error(),
			})
		}
	}

	// --- Domain services ---
	var lookup intake.IdentityLookup = identity.NewPostgresLookup(pg.DB)
	if ttl := cfg.Intake.IdentityCacheTTL; ttl > 0 {
		lookup = identity.NewCachedLookup(lookup, rdb.Client, time.Duration(ttl)*time.Second, log)
	}

	pipeline := intake.NewPipeline(
		lookup,
		submission.NewClient(cfg.Intake.SubmissionBaseURL, config.GetDuration(cfg.Intake.SubmissionTimeout)),
		intake.PipelineConfig{
			LookupTimeout:     config.GetDuration(cfg.Intake.LookupTimeout),
			SubmissionTimeout: config.GetDuration(cfg.Intake.SubmissionTimeout),
		},
		log,
	)

	emailSender, smsSender, err := notificationSenders(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Workers ---
	pool := camunda.NewPool(zeebe.Zeebe(), log).WithRecorder(obs)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pool.Close(shutdownCtx)
	}()

	for _, reg := range registrations(cfg, pipeline, lookup, emailSender, smsSender,
		records.NewBookingStore(pg.DB, cfg.Dashboards.MaxRows),
		records.NewPropertyIndex(es.Client, cfg.Database.Elasticsearch.PropertyIndex, cfg.Dashboards.MaxRows),
		log,
	) {
		if !config.IsWorkerEnabled(cfg, reg.TaskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}
		pool.Open(reg)
	}
	log.Info("workers registered", map[string]interface{}{"taskTypes": pool.TaskTypes()})

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.App.HTTPAddress,
		Handler:           routes(pg, rdb, es, zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("health/metrics server shutdown", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// notificationSenders returns nil senders for disabled channels.
func notificationSenders(ctx context.Context, cfg *config.Config) (nbr.EmailSender, nbr.SMSSender, error) {
	n := cfg.Notifications
	if !n.Email.Enabled && !n.SMS.Enabled {
		return nil, nil, nil
	}

	awsCfg, err := awsclient.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return nil, nil, err
	}

	var (
		email nbr.EmailSender
		sms   nbr.SMSSender
	)
	if n.Email.Enabled {
		email = awsclient.NewSESClient(awsCfg, n.Email.FromEmail)
	}
	if n.SMS.Enabled {
		sms = awsclient.NewSNSClient(awsCfg, n.SMS.SenderID)
	}
	return email, sms, nil
}

func registrations(
	cfg *config.Config,
	pipeline *intake.Pipeline,
	lookup intake.IdentityLookup,
	email nbr.EmailSender,
	sms nbr.SMSSender,
	bookings fr.BookingSource,
	properties fr.PropertySource,
	log logger.Logger,
) []camunda.Registration {
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	vbrCfg := vbr.LoadConfig()
	vbrCfg.Timeout = timeout(vbr.TaskType)

	ceuCfg := ceu.LoadConfig()
	ceuCfg.Timeout = timeout(ceu.TaskType)
	ceuCfg.LookupTimeout = config.GetDuration(cfg.Intake.LookupTimeout)

	sbrCfg := sbr.LoadConfig()
	sbrCfg.Timeout = timeout(sbr.TaskType)

	nbrCfg := nbr.LoadConfig()
	nbrCfg.Timeout = timeout(nbr.TaskType)
	nbrCfg.EmailEnabled = cfg.Notifications.Email.Enabled
	nbrCfg.SMSEnabled = cfg.Notifications.SMS.Enabled

	frCfg := fr.LoadConfig()
	frCfg.Timeout = timeout(fr.TaskType)
	frCfg.Location = cfg.Dashboards.Location()

	build := func(taskType string, handler worker.JobHandler) camunda.Registration {
		wc := config.GetWorkerConfig(cfg, taskType)
		return camunda.Registration{
			TaskType:      taskType,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
			Handler:       handler,
		}
	}

	return []camunda.Registration{
		build(vbr.TaskType, vbr.NewHandler(vbrCfg, log).Handle),
		build(ceu.TaskType, ceu.NewHandler(ceuCfg, lookup, log).Handle),
		build(sbr.TaskType, sbr.NewHandler(sbrCfg, pipeline, log).Handle),
		build(nbr.TaskType, nbr.NewHandler(nbrCfg, email, sms, log).Handle),
		build(fr.TaskType, fr.NewHandler(frCfg, bookings, properties, log).Handle),
	}
}

func routes(deps ...database.Pinger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		results := database.CheckAll(r.Context(), 3*time.Second, deps...)
		status, code := "ready", http.StatusOK
		checks := make(map[string]string, len(results))
		for name, err := range results {
			if err != nil {
				status, code = "not_ready", http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}
		writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
