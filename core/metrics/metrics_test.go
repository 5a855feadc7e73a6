package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector_RecordPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPass("season_x", OutcomeSuccess, 2*time.Second)
	c.RecordPass("season_x", OutcomeSuccess, time.Second)
	c.RecordPass("season_x", OutcomeSkipped, 0)

	assert.Equal(t, 2.0, counterValue(t, reg, "natsumin_sync_passes_total", map[string]string{"season": "season_x", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "natsumin_sync_passes_total", map[string]string{"season": "season_x", "outcome": "skipped"}))
}

func TestCollector_RecordBlockWrites(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBlockWrites("dashboard", 3, 0)
	c.RecordBlockWrites("dashboard", 0, 2)

	assert.Equal(t, 3.0, counterValue(t, reg, "natsumin_block_writes_total", map[string]string{"block": "dashboard", "kind": "insert"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "natsumin_block_writes_total", map[string]string{"block": "dashboard", "kind": "update"}))
}

func TestCollector_Media(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMediaResolved("anilist", 5)
	c.RecordMediaDeferred("steam")

	assert.Equal(t, 5.0, counterValue(t, reg, "natsumin_media_resolved_total", map[string]string{"source": "anilist"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "natsumin_media_deferred_total", map[string]string{"source": "steam"}))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMediaResolved("steam", 1)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "natsumin_media_resolved_total")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordPass("s", OutcomeFailure, time.Second)
	r.RecordBlockWrites("b", 1, 1)
	r.RecordMediaResolved("anilist", 1)
	r.RecordMediaDeferred("anilist")
}
