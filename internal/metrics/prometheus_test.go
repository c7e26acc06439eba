package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToolExecution(t *testing.T) {
	before := testutil.ToFloat64(ToolExecutions.WithLabelValues("get_beta", "tool_execution_error"))

	RecordToolExecution("get_beta", "tool_execution_error", 20*time.Millisecond)

	after := testutil.ToFloat64(ToolExecutions.WithLabelValues("get_beta", "tool_execution_error"))
	assert.Equal(t, before+1, after)
}

func TestRecordAgentCallStatus(t *testing.T) {
	RecordAgentCall("FinancialAdvisor", "gpt-4o", time.Second, 120, assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(AgentCalls.WithLabelValues("FinancialAdvisor", "gpt-4o", "error")))
	assert.Equal(t, 120.0, testutil.ToFloat64(AgentTokens.WithLabelValues("FinancialAdvisor", "gpt-4o")))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	Init()
	Init() // idempotent

	RecordTurn("StockMarketAdvisor", "no_calls", 0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finadvisor_turn_rounds")
}
