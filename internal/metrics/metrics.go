// Package metrics содержит счётчики Prometheus для шлюза и рассылки.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Решения шлюза, значения метки decision.
const (
	DecisionDisabled = "disabled"
	DecisionAdmin    = "admin"
	DecisionRedirect = "redirect"
	DecisionLogin    = "login"
	DecisionRegister = "register"
	DecisionLogout   = "logout"
	DecisionPass     = "pass"
)

// Виды неудачных писем, значения метки kind.
const (
	MailNewPost = "new_post"
	MailWelcome = "welcome"
)

// Metrics — счётчики member-gate.
type Metrics struct {
	Decisions    *prometheus.CounterVec
	MailSent     *prometheus.CounterVec
	MailFailures *prometheus.CounterVec
}

// NewMetrics создаёт счётчики и регистрирует их в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_gate_decisions_total",
				Help: "Total number of access gate decisions by outcome",
			},
			[]string{"decision"},
		),
		MailSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_gate_mail_sent_total",
				Help: "Total number of notification mails handed to the transport by kind",
			},
			[]string{"kind"},
		),
		MailFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_gate_mail_failures_total",
				Help: "Total number of notification mails that failed to send by kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(m.Decisions, m.MailSent, m.MailFailures)
	return m
}

// Noop возвращает счётчики, не зарегистрированные ни в одном реестре.
func Noop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// Decision увеличивает счётчик решения шлюза. Безопасен для nil.
func (m *Metrics) Decision(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

// MailResult учитывает результат отправки письма. Безопасен для nil.
func (m *Metrics) MailResult(kind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.MailFailures.WithLabelValues(kind).Inc()
		return
	}
	m.MailSent.WithLabelValues(kind).Inc()
}
