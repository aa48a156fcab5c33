package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/screenyapp/screeny/internal/manager"
	"github.com/screenyapp/screeny/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// DaemonError is an error response from the daemon, carrying its kind.
type DaemonError struct {
	Kind    ErrorKind
	Message string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("daemon error: %s", e.Message)
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, &DaemonError{Kind: resp.ErrorKind, Message: resp.Error}
	}

	return &resp, nil
}

func (c *Client) requestNamed(cmd CommandType, layoutName string) (*Response, error) {
	payload, err := json.Marshal(LayoutNamePayload{LayoutName: layoutName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.sendRequest(&Request{Command: cmd, Payload: payload})
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListLayouts retrieves available layouts and current selection.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListLayouts})
	if err != nil {
		return nil, err
	}

	var data LayoutsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse layouts data: %w", err)
	}

	return &data, nil
}

// PreviewLayout dry-runs an activation without changing state.
func (c *Client) PreviewLayout(layoutName string) (*manager.Preview, error) {
	resp, err := c.requestNamed(CommandPreviewLayout, layoutName)
	if err != nil {
		return nil, err
	}

	var preview manager.Preview
	if err := json.Unmarshal(resp.Data, &preview); err != nil {
		return nil, fmt.Errorf("failed to parse preview data: %w", err)
	}

	return &preview, nil
}

// ActivateLayout makes the named layout active.
func (c *Client) ActivateLayout(layoutName string) (*ActiveLayoutData, error) {
	resp, err := c.requestNamed(CommandActivateLayout, layoutName)
	if err != nil {
		return nil, err
	}

	var data ActiveLayoutData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse activation data: %w", err)
	}

	return &data, nil
}

// DeactivateLayout clears the active layout.
func (c *Client) DeactivateLayout() (*DeactivateData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandDeactivateLayout})
	if err != nil {
		return nil, err
	}

	var data DeactivateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse deactivation data: %w", err)
	}

	return &data, nil
}

// GetActiveLayout retrieves the active-layout record.
func (c *Client) GetActiveLayout() (*ActiveLayoutData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetActiveLayout})
	if err != nil {
		return nil, err
	}

	var data ActiveLayoutData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse active layout data: %w", err)
	}

	return &data, nil
}

// GetScreens retrieves the current screen configuration.
func (c *Client) GetScreens() (*ScreensData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetScreens})
	if err != nil {
		return nil, err
	}

	var data ScreensData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse screens data: %w", err)
	}

	return &data, nil
}

// GetActiveRules retrieves the resolved rules of the active layout.
func (c *Client) GetActiveRules() (*RulesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetActiveRules})
	if err != nil {
		return nil, err
	}

	var data RulesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse rules data: %w", err)
	}

	return &data, nil
}

// GetMonitors retrieves the known-monitors history.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var data MonitorsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &data, nil
}

// PruneMonitor removes a monitor from the history.
func (c *Client) PruneMonitor(monitorID string) error {
	payload, err := json.Marshal(PruneMonitorPayload{MonitorID: monitorID})
	if err != nil {
		return fmt.Errorf("failed to marshal prune payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandPruneMonitor, Payload: payload})
	return err
}

// CreateLayout writes a new layout file describing the current screen
// configuration.
func (c *Client) CreateLayout(name, description string) (string, error) {
	payload, err := json.Marshal(CreateLayoutPayload{Name: name, Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to marshal create payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandCreateLayout, Payload: payload})
	if err != nil {
		return "", err
	}

	var data CreateLayoutData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse create data: %w", err)
	}

	return data.FileName, nil
}

// SetDefaultLayout updates the default layout setting. An empty name clears
// it.
func (c *Client) SetDefaultLayout(layoutName string) error {
	_, err := c.requestNamed(CommandSetDefaultLayout, layoutName)
	return err
}

// ApplyNow requests an immediate placement pass.
func (c *Client) ApplyNow() error {
	_, err := c.sendRequest(&Request{Command: CommandApplyNow})
	return err
}

// Pause suspends placement passes.
func (c *Client) Pause() error {
	_, err := c.sendRequest(&Request{Command: CommandPause})
	return err
}

// Resume re-enables placement passes.
func (c *Client) Resume() error {
	_, err := c.sendRequest(&Request{Command: CommandResume})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
