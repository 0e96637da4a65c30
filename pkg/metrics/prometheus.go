package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names.
const (
	labelPipeline = "pipeline"
	labelReason   = "reason"
	labelRole     = "role"
	labelStatus   = "status"
)

// Manager owns the pipeline metrics on a private registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         *prometheus.Registry

	rowsRead        *prometheus.CounterVec
	recordsEmitted  *prometheus.CounterVec
	rowsDropped     *prometheus.CounterVec
	cellsAbsent     *prometheus.CounterVec
	rolesUnresolved *prometheus.GaugeVec
	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	lastSuccess     *prometheus.GaugeVec
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teamstats",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.rowsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_read_total",
		Help:        "Source rows loaded",
		ConstLabels: constLabels,
	}, []string{labelPipeline})

	m.recordsEmitted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_emitted_total",
		Help:        "Output records written",
		ConstLabels: constLabels,
	}, []string{labelPipeline})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_dropped_total",
		Help:        "Source rows left out of the output, by reason",
		ConstLabels: constLabels,
	}, []string{labelPipeline, labelReason})

	m.cellsAbsent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cells_absent_total",
		Help:        "Cells in resolved columns that were empty or failed coercion",
		ConstLabels: constLabels,
	}, []string{labelPipeline, labelRole})

	m.rolesUnresolved = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roles_unresolved",
		Help:        "Roles with no matching column in the last run",
		ConstLabels: constLabels,
	}, []string{labelPipeline})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Pipeline runs by outcome",
		ConstLabels: constLabels,
	}, []string{labelPipeline, labelStatus})

	m.runDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of a pipeline run",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{labelPipeline})

	m.lastSuccess = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: constLabels,
	}, []string{labelPipeline})
}

// Registry returns the registry metrics are gathered from.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRowsRead adds n loaded rows.
func (m *Manager) RecordRowsRead(pipeline string, n int) {
	if !m.enabled {
		return
	}
	m.rowsRead.WithLabelValues(pipeline).Add(float64(n))
}

// RecordRecordsEmitted adds n written records.
func (m *Manager) RecordRecordsEmitted(pipeline string, n int) {
	if !m.enabled {
		return
	}
	m.recordsEmitted.WithLabelValues(pipeline).Add(float64(n))
}

// RecordRowsDropped adds n rows dropped for reason.
func (m *Manager) RecordRowsDropped(pipeline, reason string, n int) {
	if !m.enabled || n == 0 {
		return
	}
	m.rowsDropped.WithLabelValues(pipeline, reason).Add(float64(n))
}

// RecordCellsAbsent adds n absent cells for role.
func (m *Manager) RecordCellsAbsent(pipeline, role string, n int) {
	if !m.enabled || n == 0 {
		return
	}
	m.cellsAbsent.WithLabelValues(pipeline, role).Add(float64(n))
}

// SetRolesUnresolved records how many roles found no column.
func (m *Manager) SetRolesUnresolved(pipeline string, n int) {
	if !m.enabled {
		return
	}
	m.rolesUnresolved.WithLabelValues(pipeline).Set(float64(n))
}

// ObserveRun records the outcome and duration of a run.
func (m *Manager) ObserveRun(pipeline string, d time.Duration, err error) {
	if !m.enabled {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(pipeline, status).Inc()
	m.runDuration.WithLabelValues(pipeline).Observe(d.Seconds())
	if err == nil {
		m.lastSuccess.WithLabelValues(pipeline).SetToCurrentTime()
	}
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
