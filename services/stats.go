package services

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/dzoniops/booking-service/models"
)

type StatsSource interface {
	Statistics(ctx context.Context) ([]models.UnitStats, error)
}

// StatsCollector mirrors per-unit booking statistics into gauges.
type StatsCollector struct {
	source   StatsSource
	logger   log.Logger
	bookings *prometheus.GaugeVec
	paid     *prometheus.GaugeVec
}

func NewStatsCollector(source StatsSource, reg prometheus.Registerer, logger log.Logger) *StatsCollector {
	factory := promauto.With(reg)
	return &StatsCollector{
		source: source,
		logger: log.With(logger, "component", "stats"),
		bookings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_unit_bookings",
			Help: "Stored bookings per unit.",
		}, []string{"unit", "name"}),
		paid: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_unit_deposits_paid",
			Help: "Bookings with a paid deposit per unit.",
		}, []string{"unit", "name"}),
	}
}

// Refresh replaces all gauge values with the current statistics.
func (c *StatsCollector) Refresh(ctx context.Context) error {
	stats, err := c.source.Statistics(ctx)
	if err != nil {
		return err
	}
	c.bookings.Reset()
	c.paid.Reset()
	for _, st := range stats {
		unit := strconv.FormatUint(uint64(st.UnitID), 10)
		c.bookings.WithLabelValues(unit, st.Name).Set(float64(st.Bookings))
		c.paid.WithLabelValues(unit, st.Name).Set(float64(st.Paid))
	}
	return nil
}

// Schedule registers Refresh on the cron spec.
func (c *StatsCollector) Schedule(cr *cron.Cron, spec string, timeout time.Duration) error {
	_, err := cr.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.Refresh(ctx); err != nil {
			level.Error(c.logger).Log("msg", "failed to refresh statistics", "err", err)
		}
	})
	return err
}
