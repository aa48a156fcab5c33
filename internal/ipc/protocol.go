package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/monitors"
	"github.com/screenyapp/screeny/internal/placement"
	"github.com/screenyapp/screeny/internal/rules"
	"github.com/screenyapp/screeny/internal/screen"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandListLayouts      CommandType = "LIST_LAYOUTS"
	CommandPreviewLayout    CommandType = "PREVIEW_LAYOUT"
	CommandActivateLayout   CommandType = "ACTIVATE_LAYOUT"
	CommandDeactivateLayout CommandType = "DEACTIVATE_LAYOUT"
	CommandGetActiveLayout  CommandType = "GET_ACTIVE_LAYOUT"
	CommandGetScreens       CommandType = "GET_SCREENS"
	CommandGetActiveRules   CommandType = "GET_ACTIVE_RULES"
	CommandGetMonitors      CommandType = "GET_MONITORS"
	CommandPruneMonitor     CommandType = "PRUNE_MONITOR"
	CommandCreateLayout     CommandType = "CREATE_LAYOUT"
	CommandSetDefaultLayout CommandType = "SET_DEFAULT_LAYOUT"
	CommandApplyNow         CommandType = "APPLY_NOW"
	CommandPause            CommandType = "PAUSE"
	CommandResume           CommandType = "RESUME"
)

// ErrorKind classifies error responses so clients can react without parsing
// messages.
type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "validation"
	ErrorKindCompatibility ErrorKind = "compatibility"
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindInternal      ErrorKind = "internal"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status    string          `json:"status"` // "OK" or "ERROR"
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind ErrorKind       `json:"error_kind,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool             `json:"daemon_running"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	ActiveLayout  string           `json:"active_layout"`
	Paused        bool             `json:"paused"`
	ScreenSummary string           `json:"screen_summary"`
	LastApply     time.Time        `json:"last_apply"`
	LastResult    placement.Result `json:"last_result"`
}

// LayoutsData represents the data returned by LIST_LAYOUTS
type LayoutsData struct {
	Layouts       []layout.Info `json:"layouts"`
	DefaultLayout string        `json:"default_layout"`
	ActiveLayout  string        `json:"active_layout"`
}

// LayoutNamePayload carries a layout name for the commands that address one.
type LayoutNamePayload struct {
	LayoutName string `json:"layout_name"`
}

// ActiveLayoutData represents the data returned by GET_ACTIVE_LAYOUT and
// ACTIVATE_LAYOUT.
type ActiveLayoutData struct {
	Active      bool           `json:"active"`
	Name        string         `json:"name,omitempty"`
	FileName    string         `json:"file_name,omitempty"`
	ActivatedAt time.Time      `json:"activated_at,omitempty"`
	DisplayMap  map[int]string `json:"display_map,omitempty"`
	RulesCount  int            `json:"rules_count"`
}

// DeactivateData represents the data returned by DEACTIVATE_LAYOUT.
type DeactivateData struct {
	Deactivated bool   `json:"deactivated"`
	Layout      string `json:"layout,omitempty"`
}

// ScreensData represents the data returned by GET_SCREENS
type ScreensData struct {
	Screens screen.Snapshot `json:"screens"`
	Summary string          `json:"summary"`
}

// RulesData represents the data returned by GET_ACTIVE_RULES
type RulesData struct {
	Layout string           `json:"layout,omitempty"`
	Rules  []rules.Resolved `json:"rules"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors      []monitors.Monitor `json:"monitors"`
	DefaultLayout string             `json:"default_layout"`
}

// PruneMonitorPayload represents the payload for PRUNE_MONITOR
type PruneMonitorPayload struct {
	MonitorID string `json:"monitor_id"`
}

// CreateLayoutPayload represents the payload for CREATE_LAYOUT
type CreateLayoutPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateLayoutData represents the data returned by CREATE_LAYOUT
type CreateLayoutData struct {
	FileName string `json:"file_name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponseKind creates an error response with an explicit kind
func NewErrorResponseKind(kind ErrorKind, errMsg string) *Response {
	return &Response{
		Status:    "ERROR",
		Error:     errMsg,
		ErrorKind: kind,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
