package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func get[T any](c *Client, command CommandType) (*T, error) {
	resp, err := c.sendRequest(&Request{Command: command})
	if err != nil {
		return nil, err
	}

	var data T
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return get[StatusData](c, CommandGetStatus)
}

// ListWindows retrieves the managed windows.
func (c *Client) ListWindows() (*WindowsData, error) {
	return get[WindowsData](c, CommandListWindows)
}

// ListWorkspaces retrieves the workspaces.
func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	return get[WorkspacesData](c, CommandListWorkspaces)
}

// ListLayouts retrieves available layouts and current selection.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	return get[LayoutsData](c, CommandListLayouts)
}

// ApplyLayout switches the daemon's active layout and re-tiles.
func (c *Client) ApplyLayout(layoutName string) error {
	payload, err := json.Marshal(ApplyLayoutPayload{LayoutName: layoutName})
	if err != nil {
		return fmt.Errorf("failed to marshal apply payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandApplyLayout,
		Payload: payload,
	})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
