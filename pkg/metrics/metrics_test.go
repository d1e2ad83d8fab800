package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// metricValue gathers c's registry and returns the counter or histogram
// sample count of the series matching name and labels.
func metricValue(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m.GetLabel(), labels) {
				if mf.GetType() == dto.MetricType_HISTOGRAM {
					return float64(m.GetHistogram().GetSampleCount())
				}
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func seriesCount(t *testing.T, c *Collector, name string) int {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return len(mf.GetMetric())
		}
	}
	return 0
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for k, v := range want {
		found := false
		for _, p := range pairs {
			if p.GetName() == k && p.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestCollectorRecordNegotiation(t *testing.T) {
	c := NewCollector("test", Labels{"instance": "unit"})

	c.RecordNegotiation("server", OutcomeSelected, "TLS13_AES_128_GCM_SHA256", time.Microsecond)
	c.RecordNegotiation("server", OutcomeSelected, "TLS13_AES_128_GCM_SHA256", time.Microsecond)
	c.RecordNegotiation("client", OutcomeNoShared, "ignored", time.Microsecond)

	if got := metricValue(t, c, "test_negotiations_total", map[string]string{"policy": "server", "outcome": OutcomeSelected}); got != 2 {
		t.Errorf("server/selected = %v, want 2", got)
	}
	if got := metricValue(t, c, "test_negotiations_total", map[string]string{"policy": "client", "outcome": OutcomeNoShared}); got != 1 {
		t.Errorf("client/no_shared = %v, want 1", got)
	}
	if got := metricValue(t, c, "test_suite_selected_total", map[string]string{"suite": "TLS13_AES_128_GCM_SHA256", "instance": "unit"}); got != 2 {
		t.Errorf("suite counter = %v, want 2", got)
	}
	if got := seriesCount(t, c, "test_suite_selected_total"); got != 1 {
		t.Errorf("failed negotiations must not add suite series, got %d", got)
	}

	if got := metricValue(t, c, "test_negotiation_duration_seconds", map[string]string{"policy": "server"}); got != 2 {
		t.Errorf("server duration samples = %v, want 2", got)
	}

	snap := c.Snapshot()
	if snap.Negotiations != 3 || snap.Failures != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if rate := snap.FailureRate(); rate < 0.33 || rate > 0.34 {
		t.Errorf("FailureRate() = %v", rate)
	}
}

func TestCollectorResumptionAndGroups(t *testing.T) {
	c := NewCollector("", nil)

	c.RecordResumption(true)
	c.RecordResumption(false)
	c.RecordResumption(false)
	c.RecordGroup("X25519MLKEM768")

	if got := metricValue(t, c, "suitekit_resumptions_total", map[string]string{"outcome": OutcomeRejected}); got != 2 {
		t.Errorf("rejected = %v, want 2", got)
	}
	if got := metricValue(t, c, "suitekit_group_selected_total", map[string]string{"group": "X25519MLKEM768"}); got != 1 {
		t.Errorf("group = %v, want 1", got)
	}
}

func TestEmptySnapshotFailureRate(t *testing.T) {
	if rate := NewCollector("", nil).Snapshot().FailureRate(); rate != 0 {
		t.Errorf("FailureRate() = %v, want 0", rate)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("suitekit", nil)
	c.RecordNegotiation("server", OutcomeSelected, "TLS13_AES_256_GCM_SHA384", 3*time.Microsecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`suitekit_negotiations_total{outcome="selected",policy="server"} 1`,
		`suitekit_suite_selected_total{suite="TLS13_AES_256_GCM_SHA384"} 1`,
		`suitekit_negotiation_duration_seconds_count{policy="server"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestGlobalCollector(t *testing.T) {
	orig := Global()
	defer SetGlobal(orig)

	c := NewCollector("other", nil)
	SetGlobal(c)
	if Global() != c {
		t.Error("SetGlobal did not replace the collector")
	}
}
