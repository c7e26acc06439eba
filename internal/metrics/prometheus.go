package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finadvisor/pkg/errors"
)

var (
	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finadvisor_tool_executions_total",
			Help: "Total number of dispatched tool calls",
		},
		[]string{"tool", "outcome"}, // outcome: success|unknown_tool|invalid_argument|tool_execution_error
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finadvisor_tool_latency_seconds",
			Help:    "Tool execution latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool"},
	)

	MalformedToolTags = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "finadvisor_malformed_tool_tags_total",
			Help: "Tool tags whose JSON body failed to parse and were dispatched with empty arguments",
		},
	)

	// Agent metrics
	AgentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finadvisor_agent_calls_total",
			Help: "Total number of model generations per advisor",
		},
		[]string{"agent", "model", "status"}, // status: success|error
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finadvisor_agent_latency_seconds",
			Help:    "Model generation latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"agent", "model"},
	)

	AgentTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finadvisor_agent_tokens_total",
			Help: "Total tokens used by advisors",
		},
		[]string{"agent", "model"},
	)

	// Round-loop metrics
	TurnRounds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finadvisor_turn_rounds",
			Help:    "Tool rounds executed per user turn",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"agent", "terminal"}, // terminal: no_calls|round_limit_reached|aborted
	)

	// Market data metrics
	MarketDataRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finadvisor_market_data_requests_total",
			Help: "Total number of market data API requests",
		},
		[]string{"endpoint", "status"}, // status: success|error|cache_hit
	)

	MarketDataLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finadvisor_market_data_latency_seconds",
			Help:    "Market data API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with the default Prometheus registry
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ToolExecutions)
		prometheus.MustRegister(ToolLatency)
		prometheus.MustRegister(MalformedToolTags)

		prometheus.MustRegister(AgentCalls)
		prometheus.MustRegister(AgentLatency)
		prometheus.MustRegister(AgentTokens)
		prometheus.MustRegister(TurnRounds)

		prometheus.MustRegister(MarketDataRequests)
		prometheus.MustRegister(MarketDataLatency)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics, plus whatever mount adds, on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, mount ...func(*http.ServeMux)) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	for _, m := range mount {
		m(mux)
	}

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "metrics server")
	}
	return nil
}

// RecordToolExecution records a dispatched tool call with its outcome kind
func RecordToolExecution(tool, outcome string, latency time.Duration) {
	ToolExecutions.WithLabelValues(tool, outcome).Inc()
	ToolLatency.WithLabelValues(tool).Observe(latency.Seconds())
}

// RecordAgentCall records a model generation
func RecordAgentCall(agent, model string, latency time.Duration, tokens int64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	AgentCalls.WithLabelValues(agent, model, status).Inc()
	AgentLatency.WithLabelValues(agent, model).Observe(latency.Seconds())

	if tokens > 0 {
		AgentTokens.WithLabelValues(agent, model).Add(float64(tokens))
	}
}

// RecordTurn records how many tool rounds a turn took and how it ended
func RecordTurn(agent, terminal string, rounds int) {
	TurnRounds.WithLabelValues(agent, terminal).Observe(float64(rounds))
}

// RecordMarketDataRequest records an outbound market data request
func RecordMarketDataRequest(endpoint, status string, latency time.Duration) {
	MarketDataRequests.WithLabelValues(endpoint, status).Inc()
	if latency > 0 {
		MarketDataLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
	}
}
