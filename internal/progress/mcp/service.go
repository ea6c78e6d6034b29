package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymtracker/internal/progress"

	"github.com/google/uuid"
)

// progressReader is the read side of the progress service.
type progressReader interface {
	History(ctx context.Context, userID uuid.UUID, limit int) ([]progress.WorkoutHistory, error)
	Streak(ctx context.Context, userID uuid.UUID) (*progress.Streak, error)
	Stats(ctx context.Context, userID uuid.UUID) (*progress.Stats, error)
	Weekly(ctx context.Context, userID uuid.UUID) ([]progress.DailyBucket, error)
	Chart(ctx context.Context, userID uuid.UUID, period progress.ChartPeriod) ([]progress.ChartPoint, error)
	AdminStats(ctx context.Context) (*progress.AdminStats, error)
}

// contextService is what the tool handlers need, kept small for tests.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	progressReader
}

// ContextService combines the schema lookup with the progress statistics.
type ContextService struct {
	progressReader
	schema SchemaRepo
}

func NewContextService(schemaRepo SchemaRepo, reader progressReader) *ContextService {
	return &ContextService{
		progressReader: reader,
		schema:         schemaRepo,
	}
}

// GetSchema returns the gymtracker tables as markdown, one table section each.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymtracker DB Schema\n\nNo gymtracker tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gymtracker DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(tableOrder, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}
