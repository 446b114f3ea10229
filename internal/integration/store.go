package integration

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Store owns the integration document. It is a single-writer store: a
// mutex guards the in-process read-modify-persist cycle, but nothing
// protects the file against a second process.
type Store struct {
	fs   afero.Fs
	path string

	mu  sync.Mutex
	doc Document
	now func() time.Time
}

// NewStore loads the document at path, starting fresh when the file is
// missing or unreadable.
func NewStore(fs afero.Fs, path string) *Store {
	s := &Store{
		fs:   fs,
		path: path,
		now:  time.Now,
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		slog.Warn("Could not load integration data, starting fresh", "path", path, "error", err)
		s.doc = Document{}
	}
	return s
}

// save rewrites the whole document. Callers hold s.mu.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		slog.Error("Could not encode integration data", "error", err)
		return
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		// The record stays in memory; persistence failures never take
		// the caller down.
		slog.Error("Could not persist integration data", "path", s.path, "error", err)
	}
}

// logEvent appends to the event log. Callers hold s.mu.
func (s *Store) logEvent(module, message string) {
	s.doc.EventLog = append(s.doc.EventLog, Event{
		Timestamp: s.now(),
		Module:    module,
		Message:   message,
	})
}

// AddEchoTest appends an echo round-trip result and persists.
func (s *Store) AddEchoTest(port int, status string, responseTime float64, errorMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.EchoTests = append(s.doc.EchoTests, EchoTest{
		Timestamp:    s.now(),
		Port:         port,
		Status:       status,
		ResponseTime: responseTime,
		ErrorMessage: errorMessage,
	})
	s.logEvent("echo_test", fmt.Sprintf("Echo test on port %d: %s", port, status))
	s.save()
}

// AddSNTPCheck appends a time-check result and persists.
func (s *Store) AddSNTPCheck(server, serverTime, localTime string, timeDifference float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.SNTPChecks = append(s.doc.SNTPChecks, SNTPCheck{
		Timestamp:      s.now(),
		Server:         server,
		ServerTime:     serverTime,
		LocalTime:      localTime,
		TimeDifference: timeDifference,
	})
	s.logEvent("sntp_check", fmt.Sprintf("SNTP check: %.2fs difference", timeDifference))
	s.save()
}

// AddMachineInfo appends a machine snapshot and persists.
func (s *Store) AddMachineInfo(hostname, ipAddress string, interfaces map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.MachineInfo = append(s.doc.MachineInfo, MachineSnapshot{
		Timestamp:  s.now(),
		Hostname:   hostname,
		IPAddress:  ipAddress,
		Interfaces: interfaces,
	})
	s.logEvent("machine_info", fmt.Sprintf("Machine info collected for %s", hostname))
	s.save()
}

// AddSocketError appends a transport fault and persists.
func (s *Store) AddSocketError(errorType, errorMessage, module string, port int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.SocketErrors = append(s.doc.SocketErrors, SocketError{
		Timestamp:    s.now(),
		ErrorType:    errorType,
		ErrorMessage: errorMessage,
		Module:       module,
		Port:         port,
	})
	s.logEvent("socket_error", fmt.Sprintf("Socket error in %s: %s", module, errorType))
	s.save()
}

// AddChatSession appends a chat session summary and persists.
func (s *Store) AddChatSession(sessionType string, port int, duration float64, messageCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.ChatSessions = append(s.doc.ChatSessions, ChatSession{
		Timestamp:    s.now(),
		SessionType:  sessionType,
		Port:         port,
		Duration:     duration,
		MessageCount: messageCount,
	})
	s.logEvent("chat_session", fmt.Sprintf("Chat session: %s on port %d", sessionType, port))
	s.save()
}

// Prune removes every record older than the given number of days and
// persists. A cutoff of zero days removes all prior entries.
func (s *Store) Prune(olderThanDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -olderThanDays)

	s.doc.EchoTests = pruneSlice(s.doc.EchoTests, cutoff, func(r EchoTest) time.Time { return r.Timestamp })
	s.doc.SNTPChecks = pruneSlice(s.doc.SNTPChecks, cutoff, func(r SNTPCheck) time.Time { return r.Timestamp })
	s.doc.MachineInfo = pruneSlice(s.doc.MachineInfo, cutoff, func(r MachineSnapshot) time.Time { return r.Timestamp })
	s.doc.SocketErrors = pruneSlice(s.doc.SocketErrors, cutoff, func(r SocketError) time.Time { return r.Timestamp })
	s.doc.ChatSessions = pruneSlice(s.doc.ChatSessions, cutoff, func(r ChatSession) time.Time { return r.Timestamp })
	s.doc.EventLog = pruneSlice(s.doc.EventLog, cutoff, func(r Event) time.Time { return r.Timestamp })

	s.logEvent("data_cleanup", fmt.Sprintf("Cleared data older than %d days", olderThanDays))
	s.save()
}

func pruneSlice[T any](records []T, cutoff time.Time, timestamp func(T) time.Time) []T {
	kept := records[:0]
	for _, r := range records {
		if timestamp(r).After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Export writes a full copy of the document to path, defaulting to a
// timestamped file name.
func (s *Store) Export(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		path = fmt.Sprintf("integration_export_%s.json", s.now().Format("20060102_150405"))
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("integration: encode export: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("integration: write export: %w", err)
	}
	return path, nil
}

// Summary reports per-array record counts.
type Summary struct {
	Timestamp    time.Time `json:"timestamp"`
	EchoTests    int       `json:"echo_tests"`
	SNTPChecks   int       `json:"sntp_checks"`
	MachineInfo  int       `json:"machine_info_entries"`
	SocketErrors int       `json:"socket_errors"`
	ChatSessions int       `json:"chat_sessions"`
	Events       int       `json:"integration_events"`
}

// Summarize counts the records currently held.
func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		Timestamp:    s.now(),
		EchoTests:    len(s.doc.EchoTests),
		SNTPChecks:   len(s.doc.SNTPChecks),
		MachineInfo:  len(s.doc.MachineInfo),
		SocketErrors: len(s.doc.SocketErrors),
		ChatSessions: len(s.doc.ChatSessions),
		Events:       len(s.doc.EventLog),
	}
}
