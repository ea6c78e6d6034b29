package mcp

import (
	"context"
	"encoding/json"

	"github.com/2beens/gymtracker/internal/progress"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// UserInput selects the user whose progress is inspected.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"User id (UUID)"`
}

func (in UserInput) parse() (uuid.UUID, *mcp.CallToolResult) {
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return uuid.Nil, errorResult("Invalid user_id: must be a UUID")
	}
	return userID, nil
}

func (h *Handler) GetSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (h *Handler) GetProgressStatsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := in.parse()
		if errRes != nil {
			return errRes, nil, nil
		}
		stats, err := h.service.Stats(ctx, userID)
		if err != nil {
			return errorResult("Error fetching stats: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

func (h *Handler) GetStreakTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := in.parse()
		if errRes != nil {
			return errRes, nil, nil
		}
		streak, err := h.service.Streak(ctx, userID)
		if err != nil {
			return errorResult("Error fetching streak: " + err.Error()), nil, nil
		}
		return jsonResult(streak), nil, nil
	}
}

// WorkoutHistoryInput is the input for get_workout_history.
type WorkoutHistoryInput struct {
	UserID string `json:"user_id" jsonschema:"User id (UUID)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max entries, newest first (default 50, max 500)"`
}

func (h *Handler) GetWorkoutHistoryTool() func(context.Context, *mcp.CallToolRequest, WorkoutHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutHistoryInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := UserInput{UserID: in.UserID}.parse()
		if errRes != nil {
			return errRes, nil, nil
		}
		if in.Limit < 0 {
			return errorResult("Invalid limit: must not be negative"), nil, nil
		}
		history, err := h.service.History(ctx, userID, in.Limit)
		if err != nil {
			return errorResult("Error fetching workout history: " + err.Error()), nil, nil
		}
		return jsonResult(history), nil, nil
	}
}

func (h *Handler) GetWeeklyProgressTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := in.parse()
		if errRes != nil {
			return errRes, nil, nil
		}
		buckets, err := h.service.Weekly(ctx, userID)
		if err != nil {
			return errorResult("Error fetching weekly progress: " + err.Error()), nil, nil
		}
		return jsonResult(buckets), nil, nil
	}
}

// ChartInput is the input for get_progress_chart.
type ChartInput struct {
	UserID string `json:"user_id" jsonschema:"User id (UUID)"`
	Period string `json:"period,omitempty" jsonschema:"One of week, month, quarter (default month)"`
}

func (h *Handler) GetProgressChartTool() func(context.Context, *mcp.CallToolRequest, ChartInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := UserInput{UserID: in.UserID}.parse()
		if errRes != nil {
			return errRes, nil, nil
		}
		period, err := progress.ParseChartPeriod(in.Period)
		if err != nil {
			return errorResult("Invalid period: use week, month or quarter"), nil, nil
		}
		points, err := h.service.Chart(ctx, userID, period)
		if err != nil {
			return errorResult("Error fetching chart: " + err.Error()), nil, nil
		}
		return jsonResult(points), nil, nil
	}
}

func (h *Handler) GetAdminStatsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		stats, err := h.service.AdminStats(ctx)
		if err != nil {
			return errorResult("Error fetching admin stats: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}
