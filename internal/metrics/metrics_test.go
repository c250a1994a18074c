package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.RecordMutation("venue", "create", OutcomeOK)
	r.RecordMutation("venue", "create", OutcomeOK)
	r.RecordMutation("venue", "create", OutcomeInvalid)
	r.RecordPriceLookup(OutcomeAmbiguous)
	r.RecordHTTPRequest(http.MethodGet, "/v1/venues", 200, time.Millisecond)

	assert.Equal(t, 2, r.Mutations("venue", "create", OutcomeOK))
	assert.Equal(t, 1, r.Mutations("venue", "create", OutcomeInvalid))
	assert.Equal(t, 1, r.PriceLookups(OutcomeAmbiguous))
	assert.Equal(t, 1, r.Requests())
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordMutation("tariff", "delete", OutcomeOK)
		r.RecordPriceLookup(OutcomeMatched)
		r.RecordHTTPRequest("GET", "/", 200, 0)
	})
	assert.Zero(t, r.Mutations("tariff", "delete", OutcomeOK))
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{})
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Nil(t, handler)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupExposesPrometheus(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	require.NoError(t, err)
	defer shutdown(context.Background())

	rec.RecordMutation("venue", "create", OutcomeOK)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body), "catalog_mutations_total")
}
