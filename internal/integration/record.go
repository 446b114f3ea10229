// Package integration keeps a single JSON document of results recorded by
// the other netlab components and offers simple aggregate analyses over
// it. It is a flat append log, not a storage engine: records are never
// updated or deleted individually, only pruned in bulk by age.
package integration

import "time"

// Echo test status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// EchoTest records one echo round-trip attempt.
type EchoTest struct {
	Timestamp    time.Time `json:"timestamp"`
	Port         int       `json:"port"`
	Status       string    `json:"status"`
	ResponseTime float64   `json:"response_time,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// SNTPCheck records one time-synchronization check.
type SNTPCheck struct {
	Timestamp      time.Time `json:"timestamp"`
	Server         string    `json:"server"`
	ServerTime     string    `json:"server_time"`
	LocalTime      string    `json:"local_time"`
	TimeDifference float64   `json:"time_difference"`
}

// MachineSnapshot records one machine-information collection.
type MachineSnapshot struct {
	Timestamp  time.Time           `json:"timestamp"`
	Hostname   string              `json:"hostname"`
	IPAddress  string              `json:"ip_address"`
	Interfaces map[string][]string `json:"network_interfaces"`
}

// SocketError records a transport fault raised by any component.
type SocketError struct {
	Timestamp    time.Time `json:"timestamp"`
	ErrorType    string    `json:"error_type"`
	ErrorMessage string    `json:"error_message"`
	Module       string    `json:"module"`
	Port         int       `json:"port,omitempty"`
}

// ChatSession summarizes one finished chat server session.
type ChatSession struct {
	Timestamp    time.Time `json:"timestamp"`
	SessionType  string    `json:"session_type"`
	Port         int       `json:"port"`
	Duration     float64   `json:"duration,omitempty"`
	MessageCount int       `json:"message_count,omitempty"`
}

// Event is one entry of the integration event log; every typed append
// also produces one of these.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
}

// Document is the persisted shape: one JSON object with six named
// arrays, rewritten in full on every append.
type Document struct {
	EchoTests    []EchoTest        `json:"echo_tests"`
	SNTPChecks   []SNTPCheck       `json:"sntp_checks"`
	MachineInfo  []MachineSnapshot `json:"machine_info"`
	SocketErrors []SocketError     `json:"socket_errors"`
	ChatSessions []ChatSession     `json:"chat_sessions"`
	EventLog     []Event           `json:"integration_log"`
}
