package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorify/mentorify-api/pkg/metrics"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestRegistry_ServesDomainCounters(t *testing.T) {
	metrics.BookingAttempts.WithLabelValues("success").Inc()

	names := gatheredNames(t)
	assert.True(t, names["mentorify_booking_attempts_total"])
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(metrics.BookingAttempts.WithLabelValues("success")), 1.0)
}

func TestInit_RegistersRuntimeCollectorsAndServiceInfo(t *testing.T) {
	metrics.Init("mentorify-api")

	names := gatheredNames(t)
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["service_info"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ServiceInfo.WithLabelValues("mentorify-api")))
}
