package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(NotificationsCreated.WithLabelValues("system"))
	failedBefore := testutil.ToFloat64(NotificationFailures.WithLabelValues("system"))

	RecordNotification("system", nil)
	RecordNotification("system", errors.New("down"))

	assert.Equal(t, before+1, testutil.ToFloat64(NotificationsCreated.WithLabelValues("system")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(NotificationFailures.WithLabelValues("system")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordResolve("job", "created")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "marketplace_messaging_conversations_resolved_total"))
}
