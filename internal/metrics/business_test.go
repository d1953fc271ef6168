// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBuild(t *testing.T) {
	before := testutil.ToFloat64(buildsTotal.WithLabelValues(OutcomeSuccess))
	at := time.Unix(1_700_000_000, 0)

	RecordBuild(3, 4, 2, 1024, 15*time.Millisecond, at)

	assert.Equal(t, before+1, testutil.ToFloat64(buildsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(3), testutil.ToFloat64(botsListed))
	assert.Equal(t, float64(4), testutil.ToFloat64(rulesSeen.WithLabelValues("rewrites")))
	assert.Equal(t, float64(2), testutil.ToFloat64(rulesSeen.WithLabelValues("redirects")))
	assert.Equal(t, float64(1024), testutil.ToFloat64(pageBytes))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(lastSuccess))

	var m dto.Metric
	require.NoError(t, buildDuration.Write(&m))
	require.NotNil(t, m.GetHistogram())
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestIncBuildFailure(t *testing.T) {
	beforeTotal := testutil.ToFloat64(buildsTotal.WithLabelValues(OutcomeFailure))
	beforeStage := testutil.ToFloat64(buildFailures.WithLabelValues(StageLoad))

	IncBuildFailure(StageLoad)

	assert.Equal(t, beforeTotal+1, testutil.ToFloat64(buildsTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, beforeStage+1, testutil.ToFloat64(buildFailures.WithLabelValues(StageLoad)))
}

func TestPromhttpExposure(t *testing.T) {
	IncBuildFailure(StageRender)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `botindex_build_failures_total{stage="render"}`)
}
