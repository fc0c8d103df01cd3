package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter for ingestion outcomes, result is "success" or an error Kind
	ingestResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geopost_ingest_total",
			Help: "Total number of post ingestion attempts",
		},
		[]string{"result"},
	)

	ingestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geopost_ingest_duration_seconds",
			Help:    "Time spent ingesting a post, uploads included",
			Buckets: prometheus.DefBuckets,
		},
	)

	uploadedFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geopost_uploaded_files_total",
			Help: "Total number of files written to object storage",
		},
		[]string{"status"},
	)

	uploadedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geopost_uploaded_bytes_total",
			Help: "Total number of bytes written to object storage",
		},
	)
)

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if kind, ok := ErrorKind(err); ok {
		return string(kind)
	}
	return "unexpected"
}
