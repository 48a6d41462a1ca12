package metrics

import (
	"strings"
	"testing"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
}

func TestRenderIncludesBackendSeries(t *testing.T) {
	ObserveBackendCall(200, 12)
	ObserveBackendCall(502, 40)
	ObserveBackendCall(0, 3)
	IncSessionCreated()

	out := Render()
	for _, want := range []string{
		"backend_calls_total",
		"backend_errors_total",
		`backend_responses_total{class="2xx"}`,
		`backend_responses_total{class="network"}`,
		`backend_duration_ms_bucket{le="+Inf"}`,
		"sessions_created_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "network", 200: "2xx", 404: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Fatalf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
