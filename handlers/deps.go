package handlers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fittrack-dashboard/charts"
	"fittrack-dashboard/dashboard"
	"fittrack-dashboard/metrics"
	"fittrack-dashboard/tmpl"
)

// Deps holds all handler dependencies.
type Deps struct {
	Sessions      *dashboard.Registry
	Templates     *tmpl.Templates
	Charts        *charts.Selector
	Log           *zap.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Now           func() time.Time
	ExportPrefix  string
	SecureCookies bool
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
