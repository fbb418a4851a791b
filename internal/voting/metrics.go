package voting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the voting module.
type Metrics struct {
	VotesCast  *prometheus.CounterVec
	Rejections *prometheus.CounterVec
}

// NewMetrics registers voting metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sufragio_votes_cast_total",
			Help: "Total ballots accepted by office",
		}, []string{"office"}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sufragio_vote_rejections_total",
			Help: "Total ballots rejected by reason code",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementVotesCast(office string) {
	if m != nil {
		m.VotesCast.WithLabelValues(office).Inc()
	}
}

func (m *Metrics) IncrementRejections(reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(reason).Inc()
	}
}
