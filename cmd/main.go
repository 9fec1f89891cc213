package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/config"
	"tinychain-alerting/internal/alert"
	"tinychain-alerting/internal/api"
	"tinychain-alerting/internal/database"
	"tinychain-alerting/internal/push"
	"tinychain-alerting/internal/quote"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	store, err := database.Open(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	loadMetrics(store)

	registry := quote.NewRegistry()
	registry.Register("kraken", quote.NewKraken(
		config.GetString("kraken_api_url"),
		config.GetDuration("quote_timeout"),
	))
	registry.Register("coinpaprika", quote.NewCoinpaprika(config.GetString("api_pro_key")))

	router := push.NewRouter()
	setupPushProviders(router)

	evaluator := alert.NewEvaluator(store, registry, config.GetDuration("quote_timeout"))
	dispatcher := alert.NewDispatcher(store, store, store, router, config.GetDuration("push_timeout"))
	service := alert.NewService(evaluator, dispatcher, config.GetDuration("check_interval"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service.Start(ctx)

	mux := http.NewServeMux()
	api.NewServer(store).Routes(mux)
	go func() {
		addr := fmt.Sprintf(":%d", config.GetInt("http_port"))
		log.Infof("Launching API endpoint on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
		saveMetrics(store)
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting alerting service...")
}

// setupPushProviders wires a provider per device type from whatever
// credentials are configured. Missing credentials only disable the
// corresponding device types.
func setupPushProviders(router *push.Router) {
	if keyPath := config.GetString("apns_key_path"); keyPath != "" {
		apns, err := push.NewAPNS(push.APNSConfig{
			KeyPath:    keyPath,
			KeyID:      config.GetString("apns_key_id"),
			TeamID:     config.GetString("apns_team_id"),
			Topic:      config.GetString("apns_topic"),
			Production: config.GetBool("apns_production"),
		})
		if err != nil {
			log.Fatalf("Failed to configure APNs: %v", err)
		}
		router.Register("ios", apns)
		router.Register("macos", apns)
	} else {
		log.Warn("APNS_KEY_PATH not set, ios/macos notifications disabled")
	}

	if serverKey := config.GetString("fcm_server_key"); serverKey != "" {
		fcm := push.NewFCM(
			config.GetString("fcm_api_url"),
			serverKey,
			config.GetDuration("push_timeout"),
		)
		router.Register("android", fcm)
		router.Register("windows", fcm)
	} else {
		log.Warn("FCM_SERVER_KEY not set, android/windows notifications disabled")
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func loadMetrics(store *database.Store) {
	m := alert.Metrics()

	alertsEvaluated, _ := store.GetMetric("alerts_evaluated")
	quoteFailures, _ := store.GetMetric("quote_failures")
	notificationsSent, _ := store.GetMetric("notifications_sent")
	pushFailures, _ := store.GetMetric("push_failures")

	m.AlertsEvaluated.Add(alertsEvaluated)
	m.QuoteFailures.Add(quoteFailures)
	m.NotificationsSent.Add(notificationsSent)
	m.PushFailures.Add(pushFailures)

	log.Println("Metrics loaded from database.")
}

func saveMetrics(store *database.Store) {
	m := alert.Metrics()

	store.SaveMetric("alerts_evaluated", getMetricValue(m.AlertsEvaluated))
	store.SaveMetric("quote_failures", getMetricValue(m.QuoteFailures))
	store.SaveMetric("notifications_sent", getMetricValue(m.NotificationsSent))
	store.SaveMetric("push_failures", getMetricValue(m.PushFailures))

	log.Println("Metrics saved to database.")
}

func getMetricValue(metric prometheus.Collector) float64 {
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		return metricProto.Counter.GetValue()
	}
	if metricProto.Gauge != nil {
		return metricProto.Gauge.GetValue()
	}
	return 0
}
