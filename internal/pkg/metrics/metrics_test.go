package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/attendance/check-in", "200", 0.02)
	RecordHTTPRequest("POST", "/api/v1/attendance/check-in", "200", 0.03)
	RecordHTTPRequest("POST", "/api/v1/attendance/check-in", "409", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/attendance/check-in", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/attendance/check-in", "409")))
}

func TestRecordCheckIn(t *testing.T) {
	CheckInsTotal.Reset()

	RecordCheckIn("manual")
	RecordCheckIn("qr")
	RecordCheckIn("qr")

	assert.Equal(t, float64(1), testutil.ToFloat64(CheckInsTotal.WithLabelValues("manual")))
	assert.Equal(t, float64(2), testutil.ToFloat64(CheckInsTotal.WithLabelValues("qr")))
}

func TestRecordPaymentAndExtension(t *testing.T) {
	PaymentsTotal.Reset()
	MembershipExtensionsTotal.Reset()

	RecordPayment("upi", "completed")
	RecordExtension(ExtensionApplied)
	RecordExtension(ExtensionFailed)
	RecordExtension(ExtensionQueued)

	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentsTotal.WithLabelValues("upi", "completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(MembershipExtensionsTotal.WithLabelValues(ExtensionApplied)))
	assert.Equal(t, float64(1), testutil.ToFloat64(MembershipExtensionsTotal.WithLabelValues(ExtensionFailed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(MembershipExtensionsTotal.WithLabelValues(ExtensionQueued)))
}

func TestRecordCache(t *testing.T) {
	CacheRequestsTotal.Reset()

	RecordCache("revenue", true)
	RecordCache("revenue", false)
	RecordCache("revenue", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("revenue", "hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("revenue", "miss")))
}

func TestRecordBreaker(t *testing.T) {
	CircuitBreakerState.Reset()
	CircuitBreakerRequests.Reset()

	RecordBreakerState("google-tokeninfo", 2)
	RecordBreakerRequest("google-tokeninfo", "rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("google-tokeninfo")))
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("google-tokeninfo", "rejected")))
}
