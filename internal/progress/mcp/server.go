package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only progress tools.
// Used by the backend when mounting MCP at /mcp and by cmd/progress_mcp over stdio.
func NewServer(pool *pgxpool.Pool, reader progressReader) *mcp.Server {
	h := NewHandler(NewContextService(NewPoolSchemaRepo(pool), reader))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymtracker-progress",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymtracker_schema",
		Description: "Returns the DB schema of the gymtracker tables (users, catalog, enrollments, workout history, streaks): table names, columns, types, nullable, default.",
	}, h.GetSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress_stats",
		Description: "Returns aggregate stats for a user: total workouts, this week, this month, current and longest streak, total and average duration, completion percentage of the active program. Arg: user_id.",
	}, h.GetProgressStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_streak",
		Description: "Returns the current and longest streak of consecutive workout days for a user and the last workout date. Arg: user_id.",
	}, h.GetStreakTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_history",
		Description: "Returns logged workouts of a user, newest first, with the per-exercise completions. Args: user_id; optional: limit.",
	}, h.GetWorkoutHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_progress",
		Description: "Returns 7 daily buckets (oldest first, ending today) with workouts completed and total duration for a user. Arg: user_id.",
	}, h.GetWeeklyProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress_chart",
		Description: "Returns per-day workouts, duration and calories for the days with activity in the trailing period. Args: user_id; optional: period (week, month, quarter).",
	}, h.GetProgressChartTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_admin_stats",
		Description: "Returns gym-wide totals: all workouts, workouts this week and the most active users.",
	}, h.GetAdminStatsTool())

	return s
}
