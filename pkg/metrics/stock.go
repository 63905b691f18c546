package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"

	OutcomeApplied      = "applied"
	OutcomeInsufficient = "insufficient"
)

// StockMetrics counts stock adjustments and the units they moved.
type StockMetrics struct {
	adjustments *prometheus.CounterVec
	units       *prometheus.CounterVec
}

func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_adjustments_total",
		Help: "Stock adjustment attempts by direction and outcome.",
	}, []string{"direction", "outcome"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_units_total",
		Help: "Units added to or removed from stock.",
	}, []string{"direction"})
	reg.MustRegister(adjustments, units)
	return &StockMetrics{adjustments: adjustments, units: units}
}

// Applied records a persisted adjustment of quantity units.
func (s *StockMetrics) Applied(direction string, quantity int) {
	if s == nil || s.adjustments == nil {
		return
	}
	s.adjustments.WithLabelValues(direction, OutcomeApplied).Inc()
	s.units.WithLabelValues(direction).Add(float64(quantity))
}

// Rejected records a decrease refused for insufficient stock.
func (s *StockMetrics) Rejected(direction string) {
	if s == nil || s.adjustments == nil {
		return
	}
	s.adjustments.WithLabelValues(direction, OutcomeInsufficient).Inc()
}
