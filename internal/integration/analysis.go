package integration

// EchoAnalysis aggregates echo test results.
type EchoAnalysis struct {
	TotalTests      int     `json:"total_tests"`
	SuccessfulTests int     `json:"successful_tests"`
	FailedTests     int     `json:"failed_tests"`
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseTime float64 `json:"avg_response_time,omitempty"`
	MinResponseTime float64 `json:"min_response_time,omitempty"`
	MaxResponseTime float64 `json:"max_response_time,omitempty"`
}

// AnalyzeEchoTests computes counts, the success rate in percent, and
// response-time aggregates over the successful tests that carried one.
func (s *Store) AnalyzeEchoTests() EchoAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a EchoAnalysis
	a.TotalTests = len(s.doc.EchoTests)
	if a.TotalTests == 0 {
		return a
	}

	var responseTimes []float64
	for _, test := range s.doc.EchoTests {
		if test.Status == StatusCompleted {
			a.SuccessfulTests++
			if test.ResponseTime > 0 {
				responseTimes = append(responseTimes, test.ResponseTime)
			}
		} else {
			a.FailedTests++
		}
	}
	a.SuccessRate = float64(a.SuccessfulTests) / float64(a.TotalTests) * 100

	if len(responseTimes) > 0 {
		a.MinResponseTime, a.AvgResponseTime, a.MaxResponseTime = minAvgMax(responseTimes)
	}
	return a
}

// TimeSyncAnalysis aggregates SNTP checks.
type TimeSyncAnalysis struct {
	TotalChecks       int     `json:"total_checks"`
	AvgTimeDifference float64 `json:"avg_time_difference"`
	MinTimeDifference float64 `json:"min_time_difference"`
	MaxTimeDifference float64 `json:"max_time_difference"`
	SyncQuality       string  `json:"sync_quality,omitempty"`
}

// AnalyzeTimeSync computes difference aggregates and grades the average:
// under 1 s is Excellent, under 5 s Good, under 10 s Fair, else Poor.
func (s *Store) AnalyzeTimeSync() TimeSyncAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a TimeSyncAnalysis
	a.TotalChecks = len(s.doc.SNTPChecks)
	if a.TotalChecks == 0 {
		return a
	}

	differences := make([]float64, 0, a.TotalChecks)
	for _, check := range s.doc.SNTPChecks {
		differences = append(differences, check.TimeDifference)
	}
	a.MinTimeDifference, a.AvgTimeDifference, a.MaxTimeDifference = minAvgMax(differences)

	switch {
	case a.AvgTimeDifference < 1.0:
		a.SyncQuality = "Excellent"
	case a.AvgTimeDifference < 5.0:
		a.SyncQuality = "Good"
	case a.AvgTimeDifference < 10.0:
		a.SyncQuality = "Fair"
	default:
		a.SyncQuality = "Poor"
	}
	return a
}

// ErrorAnalysis aggregates socket errors across modules.
type ErrorAnalysis struct {
	TotalErrors    int            `json:"total_errors"`
	ErrorsByModule map[string]int `json:"errors_by_module,omitempty"`
}

// AnalyzeErrors groups the recorded socket errors by originating module.
func (s *Store) AnalyzeErrors() ErrorAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := ErrorAnalysis{TotalErrors: len(s.doc.SocketErrors)}
	if a.TotalErrors == 0 {
		return a
	}

	a.ErrorsByModule = make(map[string]int)
	for _, e := range s.doc.SocketErrors {
		a.ErrorsByModule[e.Module]++
	}
	return a
}

func minAvgMax(values []float64) (min, avg, max float64) {
	min, max = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, sum / float64(len(values)), max
}
