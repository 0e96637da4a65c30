package service

import (
	"github.com/okian/teamstats/internal/adapters/sink"
	"github.com/okian/teamstats/internal/adapters/source"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/pkg/logger"
	"github.com/okian/teamstats/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReader sets the table reader.
func WithReader(r source.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithWriter sets the output writer.
func WithWriter(w sink.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMetricsFile exports metrics to path after every run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithSpecs replaces the role specs used by a pipeline.
func WithSpecs(p Pipeline, specs []schema.Spec) Option {
	return func(s *Service) {
		if len(specs) > 0 {
			s.specs[p] = specs
		}
	}
}

// WithWordBoundary switches substring column matching to whole tokens.
func WithWordBoundary(enabled bool) Option {
	return func(s *Service) {
		s.wordBoundary = enabled
	}
}

// WithRunID sets the run id generator.
func WithRunID(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}
