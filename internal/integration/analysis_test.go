package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeEchoTests(t *testing.T) {
	store, _ := memStore(t)

	store.AddEchoTest(8880, StatusCompleted, 0.05, "")
	store.AddEchoTest(8880, StatusCompleted, 0.15, "")
	store.AddEchoTest(8881, StatusFailed, 0, "connection refused")

	a := store.AnalyzeEchoTests()
	assert.Equal(t, 3, a.TotalTests)
	assert.Equal(t, 2, a.SuccessfulTests)
	assert.Equal(t, 1, a.FailedTests)
	assert.InDelta(t, 66.67, a.SuccessRate, 0.01)
	assert.InDelta(t, 0.05, a.MinResponseTime, 1e-9)
	assert.InDelta(t, 0.10, a.AvgResponseTime, 1e-9)
	assert.InDelta(t, 0.15, a.MaxResponseTime, 1e-9)
}

func TestAnalyzeEchoTests_Empty(t *testing.T) {
	store, _ := memStore(t)
	assert.Zero(t, store.AnalyzeEchoTests().TotalTests)
}

func TestAnalyzeTimeSync_Quality(t *testing.T) {
	tests := []struct {
		name        string
		differences []float64
		quality     string
	}{
		{"excellent", []float64{0.2, 0.4}, "Excellent"},
		{"good", []float64{2.0, 3.0}, "Good"},
		{"fair", []float64{8.0, 9.0}, "Fair"},
		{"poor", []float64{20.0, 40.0}, "Poor"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := memStore(t)
			for _, d := range tc.differences {
				store.AddSNTPCheck("pool.ntp.org", "s", "l", d)
			}

			a := store.AnalyzeTimeSync()
			assert.Equal(t, len(tc.differences), a.TotalChecks)
			assert.Equal(t, tc.quality, a.SyncQuality)
		})
	}
}

func TestAnalyzeTimeSync_Aggregates(t *testing.T) {
	store, _ := memStore(t)
	store.AddSNTPCheck("pool.ntp.org", "s", "l", 1.0)
	store.AddSNTPCheck("pool.ntp.org", "s", "l", 3.0)

	a := store.AnalyzeTimeSync()
	assert.InDelta(t, 1.0, a.MinTimeDifference, 1e-9)
	assert.InDelta(t, 2.0, a.AvgTimeDifference, 1e-9)
	assert.InDelta(t, 3.0, a.MaxTimeDifference, 1e-9)
}

func TestAnalyzeErrors_GroupsByModule(t *testing.T) {
	store, _ := memStore(t)

	store.AddSocketError("ConnectionError", "refused", "echo_test", 8880)
	store.AddSocketError("Timeout", "no reply", "sntp_check", 0)
	store.AddSocketError("ConnectionError", "reset", "echo_test", 8880)

	a := store.AnalyzeErrors()
	assert.Equal(t, 3, a.TotalErrors)
	assert.Equal(t, 2, a.ErrorsByModule["echo_test"])
	assert.Equal(t, 1, a.ErrorsByModule["sntp_check"])
}
