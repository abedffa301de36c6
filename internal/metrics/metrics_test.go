package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Registers(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)

	c.ObserveHTTP("GET", "/api/gitea/commits", 200, 20*time.Millisecond)
	c.ObserveUpstream("list_commits", 200, 15*time.Millisecond)
	c.ObserveOperation("commits", "succeeded")

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}

	assert.True(t, found["gitea_bridge_http_requests_total"])
	assert.True(t, found["gitea_bridge_http_request_duration_seconds"])
	assert.True(t, found["gitea_bridge_upstream_requests_total"])
	assert.True(t, found["gitea_bridge_upstream_request_duration_seconds"])
	assert.True(t, found["gitea_bridge_operations_total"])
	assert.True(t, found["go_goroutines"])
}

func TestCollector_ObserveUpstream(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)

	c.ObserveUpstream("get_repository", 200, time.Millisecond)
	c.ObserveUpstream("get_repository", 200, time.Millisecond)
	c.ObserveUpstream("get_repository", 404, time.Millisecond)
	c.ObserveUpstream("get_repository", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstreamRequests.WithLabelValues("get_repository", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamRequests.WithLabelValues("get_repository", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamRequests.WithLabelValues("get_repository", "error")))
}

func TestCollector_Handler(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)
	c.ObserveHTTP("GET", "/health", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `gitea_bridge_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeLabel("a\nb\rc"))
	assert.Equal(t, "/api/gitea/repo-info", sanitizeLabel("/api/gitea/repo-info"))

	long := strings.Repeat("ж", maxLabelLength+10)
	assert.Len(t, []rune(sanitizeLabel(long)), maxLabelLength)
}
