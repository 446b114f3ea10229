package integration

// Bus topics the components publish their results on. The integration
// subscriber consumes all of them.
const (
	TopicEchoResult  = "netlab.echo.result"
	TopicSNTPCheck   = "netlab.sntp.check"
	TopicMachineInfo = "netlab.machine.info"
	TopicSocketError = "netlab.socket.error"
	TopicChatSession = "netlab.chat.session"
)

// EchoResultEvent is the payload published on TopicEchoResult.
type EchoResultEvent struct {
	Port         int     `json:"port"`
	Status       string  `json:"status"`
	ResponseTime float64 `json:"response_time,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// SNTPCheckEvent is the payload published on TopicSNTPCheck.
type SNTPCheckEvent struct {
	Server         string  `json:"server"`
	ServerTime     string  `json:"server_time"`
	LocalTime      string  `json:"local_time"`
	TimeDifference float64 `json:"time_difference"`
}

// MachineInfoEvent is the payload published on TopicMachineInfo.
type MachineInfoEvent struct {
	Hostname   string              `json:"hostname"`
	IPAddress  string              `json:"ip_address"`
	Interfaces map[string][]string `json:"network_interfaces"`
}

// SocketErrorEvent is the payload published on TopicSocketError.
type SocketErrorEvent struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
	Module       string `json:"module"`
	Port         int    `json:"port,omitempty"`
}

// ChatSessionEvent is the payload published on TopicChatSession.
type ChatSessionEvent struct {
	SessionType  string  `json:"session_type"`
	Port         int     `json:"port"`
	Duration     float64 `json:"duration,omitempty"`
	MessageCount int     `json:"message_count,omitempty"`
}
