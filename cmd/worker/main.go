package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"facetrack/internal/config"
	"facetrack/internal/queue"
	"facetrack/internal/store"
)

var consumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "facetrack_worker_events_total",
	Help: "Check-in events consumed by the worker.",
}, []string{"result"})

// Worker drains check-in events off the queue for audit logging and
// consumer-side metrics. Recognition itself happens in the browser, so the
// worker's only job is observing the event stream.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "facetrack:checkins")
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+cfg.WorkerPort, mux); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Warn("worker metrics endpoint failed")
		}
	}()

	messages, err := q.Consume(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("queue consume init failed")
	}

	logrus.Info("worker started, waiting for check-in events")
	for msg := range messages {
		if msg.Type != "checkin" {
			consumed.WithLabelValues("ignored").Inc()
			continue
		}

		var evt queue.CheckInEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			consumed.WithLabelValues("malformed").Inc()
			logrus.WithError(err).Warn("malformed check-in event")
			continue
		}

		consumed.WithLabelValues("ok").Inc()
		logrus.WithFields(logrus.Fields{
			"id":        evt.ID,
			"name":      evt.Name,
			"timestamp": evt.Timestamp,
			"status":    evt.Status,
		}).Info("check-in")
	}

	logrus.Info("worker stopped")
}
