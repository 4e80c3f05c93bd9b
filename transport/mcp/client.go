package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Broadside",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Broadside - MCP Interface

Read-only view of a running Broadside server. Matches are played by two
participants over the WebSocket at /ws; these tools let you inspect them.

AVAILABLE TOOLS:
- game_rules: Grid size and fleet every match uses
- list_configs: Rules presets available on the server
- list_sessions: Live matches with scores and whose turn it is
- get_session: One live match in detail
- queue_status: Participants waiting for an opponent
- game_instructions: How the game and the WebSocket protocol work`),
	)

	c.registerTools()
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the grid size and fleet used by every match on this server",
		InputSchema: emptySchema(),
	}, c.handleGameRules)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List the rules presets available on the server",
		InputSchema: emptySchema(),
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live matches",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of sessions to return (optional)",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get scores, shot counts and turn of a live match",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "queue_status",
		Description: "Get the number of waiting participants and live matches",
		InputSchema: emptySchema(),
	}, c.handleQueueStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and the WebSocket message protocol",
		InputSchema: emptySchema(),
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules engine.Rules
	if err := c.apiCall(ctx, "GET", "/api/rules", nil, &rules); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRules(&rules)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Rules Presets:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Ships: %d, Cells: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.GridSize, config.GridSize, len(config.Fleet), config.Fleet.TotalCells())
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions"
	if limit := request.GetInt("limit", 0); limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var response struct {
		Count    int                   `json:"count"`
		Total    int                   `json:"total"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Live Sessions (%d of %d):\n\n", response.Count, response.Total)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s: %s %d vs %d %s, %s to fire (started %s)\n",
			s.ID, s.Players[0], s.Scores[0], s.Scores[1], s.Players[1],
			s.Players[s.Turn], s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleQueueStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status service.QueueInfo
	if err := c.apiCall(ctx, "GET", "/api/queue", nil, &status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Waiting: %d\nLive sessions: %d\nConnected: %d\n",
		status.Waiting, status.LiveSessions, status.Connected)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Broadside - Complete Instructions

GAME OBJECTIVE:
Find and hit every cell of your opponent's hidden fleet before they find yours.

HOW A MATCH STARTS:
• Connect to /ws; the server replies with a connected event carrying your participant id
• Send join-queue; the first two waiting participants are paired in arrival order
• Both players get match-start, then a private your-layout with their own ships, then turn

TAKING TURNS:
• Slot 0 fires first; after every shot the turn passes to the other slot
• A shot at a ship cell is a hit and scores one point
• A shot at water, or outside the grid, is a miss
• Firing twice at the same cell, or out of turn, is rejected and changes nothing

VICTORY CONDITIONS:
• The first player to hit every ship cell of the opponent wins
• Disconnecting during a match forfeits it; the opponent wins with reason "forfeit"

MESSAGES YOU SEND:
{"event": "set-name", "name": "Ada"}
{"event": "join-queue"}
{"event": "fire", "session_id": "<id>", "row": 3, "col": 7}

MESSAGES YOU RECEIVE:
connected, waiting-status, match-start, your-layout, turn,
fire-result, score-update, game-over, match-aborted, rejected-status

Every message has the shape {"event": ..., "session_id": ..., "data": {...}}.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatRules(rules *engine.Rules) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rules: %s\nGrid: %dx%d\nFleet (%d cells):\n",
		rules.Name, rules.GridSize, rules.GridSize, rules.Fleet.TotalCells())
	for _, ship := range rules.Fleet {
		fmt.Fprintf(&b, "  - %s: %d\n", ship.Name, ship.Length)
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nGrid: %dx%d\nCreated: %s\nLast shot: %s\n\n",
		session.ID, session.GridSize, session.GridSize,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"))

	for slot, name := range session.Players {
		marker := " "
		if slot == session.Turn && !session.Over {
			marker = "▶"
		}
		fmt.Fprintf(&b, "%s Slot %d %s: score %d, shots %d, cells left to hit %d\n",
			marker, slot, name, session.Scores[slot], session.Shots[slot], session.Remaining[slot])
	}

	if session.Over {
		b.WriteString("\nMatch over\n")
	}
	return b.String()
}
