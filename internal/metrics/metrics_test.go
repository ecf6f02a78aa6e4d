package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJobRun(t *testing.T) {
	before := testutil.ToFloat64(jobRuns.WithLabelValues("badges", "skipped"))
	RecordJobRun("badges", "skipped", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(jobRuns.WithLabelValues("badges", "skipped")))
}

func TestRecordMotivationOutcome(t *testing.T) {
	ok := testutil.ToFloat64(motivationsGenerated.WithLabelValues("template", "success"))
	failed := testutil.ToFloat64(motivationsGenerated.WithLabelValues("template", "failed"))

	RecordMotivation("template", nil)
	RecordMotivation("template", errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(motivationsGenerated.WithLabelValues("template", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(motivationsGenerated.WithLabelValues("template", "failed")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	done := HTTPRequestStarted()
	time.Sleep(time.Millisecond)
	done("GET", "/api/v1/healthcheck", "200")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `smokefree_http_requests_total{method="GET",route="/api/v1/healthcheck",status="200"}`)
}
