// ABOUTME: MCP resource implementations for habits.
// ABOUTME: Provides habits://list and habits://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/habits/internal/models"
)

func (s *Server) registerResources() {
	// habits://list - the full habit collection
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "habits://list",
		Name:        "All Habits",
		Description: "Every habit with schedule, pin state, and completion count",
		MIMEType:    "application/json",
	}, s.handleListResource)

	// habits://today - what is due and what is done today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "habits://today",
		Name:        "Today's Habits",
		Description: "Habits due today and whether each is completed",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

func (s *Server) handleListResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	habits, stale, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	result := map[string]any{
		"habits": habits,
		"stale":  stale,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "habits://list",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	habits, stale, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	now := time.Now()
	today := models.FormatDate(now)

	type dueHabit struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Completed bool   `json:"completed"`
	}
	var due []dueHabit
	for _, h := range habits {
		if !h.Schedule.Due(now.Weekday()) {
			continue
		}
		due = append(due, dueHabit{
			ID:        h.ID,
			Name:      h.Name,
			Completed: h.Completed(today),
		})
	}

	result := map[string]any{
		"date":  today,
		"due":   due,
		"stale": stale,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "habits://today",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
