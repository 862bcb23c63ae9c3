// ABOUTME: MCP tool implementations for habits.
// ABOUTME: Provides habit CRUD, completion toggles, and derived statistics.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/stats"
	"github.com/harperreed/habits/internal/store"
)

func (s *Server) registerTools() {
	// list_habits
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List all habits with schedule and pin state",
	}, s.handleListHabits)

	// get_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_habit",
		Description: "Get a habit with its completion history by ID or ID prefix",
	}, s.handleGetHabit)

	// add_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a new habit with a weekly schedule",
	}, s.handleAddHabit)

	// toggle_completion
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_completion",
		Description: "Mark a habit done (or undo it) for a date",
	}, s.handleToggleCompletion)

	// set_note
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_note",
		Description: "Attach a note to a habit for a date",
	}, s.handleSetNote)

	// pin_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "pin_habit",
		Description: "Toggle the pinned flag on a habit",
	}, s.handlePinHabit)

	// habit_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "habit_stats",
		Description: "Compute streaks and completion rate for a habit",
	}, s.handleHabitStats)

	// delete_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_habit",
		Description: "Delete a habit permanently",
	}, s.handleDeleteHabit)
}

// Tool input/output types

type habitOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schedule    string `json:"schedule"`
	Pinned      bool   `json:"pinned"`
	Completed   int    `json:"completed_days"`
	Message     string `json:"message,omitempty"`
}

type listHabitsOutput struct {
	Habits []habitOutput `json:"habits"`
	Stale  bool          `json:"stale,omitempty"`
}

type getHabitInput struct {
	ID string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
}

type getHabitOutput struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Schedule       []bool            `json:"schedule"`
	CompletedDates []string          `json:"completed_dates"`
	Notes          map[string]string `json:"notes,omitempty"`
	Photos         map[string]string `json:"photos,omitempty"`
	Pinned         bool              `json:"pinned"`
}

type addHabitInput struct {
	Name        string `json:"name" jsonschema:"description=Habit name,required"`
	Description string `json:"description,omitempty" jsonschema:"description=Free-text description"`
	Schedule    []bool `json:"schedule" jsonschema:"description=7 booleans Sunday..Saturday marking due days,required"`
}

type toggleCompletionInput struct {
	ID   string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
	Date string `json:"date,omitempty" jsonschema:"description=Date (YYYY-MM-DD), defaults to today"`
}

type toggleCompletionOutput struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}

type setNoteInput struct {
	ID   string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
	Date string `json:"date" jsonschema:"description=Date (YYYY-MM-DD),required"`
	Note string `json:"note" jsonschema:"description=Note text,required"`
}

type pinHabitInput struct {
	ID string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
}

type habitStatsInput struct {
	ID   string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
	Days int    `json:"days,omitempty" jsonschema:"description=Trailing window in days; omit for all time"`
}

type habitStatsOutput struct {
	Name           string  `json:"name"`
	CurrentStreak  int     `json:"current_streak"`
	BestStreak     int     `json:"best_streak"`
	CompletionRate float64 `json:"completion_rate"`
	TotalDays      int     `json:"total_days"`
	Stale          bool    `json:"stale,omitempty"`
}

type deleteHabitInput struct {
	ID string `json:"id" jsonschema:"description=Habit ID or prefix,required"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, listHabitsOutput, error) {
	habits, stale, err := s.store.List(ctx)
	if err != nil {
		return nil, listHabitsOutput{}, fmt.Errorf("list habits: %w", err)
	}

	out := listHabitsOutput{Stale: stale, Habits: make([]habitOutput, 0, len(habits))}
	for _, h := range habits {
		out.Habits = append(out.Habits, habitOutput{
			ID:          h.ID,
			Name:        h.Name,
			Description: h.Description,
			Schedule:    h.Schedule.String(),
			Pinned:      h.Pinned,
			Completed:   len(h.CompletedDates),
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetHabit(ctx context.Context, req *mcp.CallToolRequest, input getHabitInput) (*mcp.CallToolResult, getHabitOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, getHabitOutput{}, err
	}
	h, _, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, getHabitOutput{}, err
	}
	return nil, getHabitOutput{
		ID:             h.ID,
		Name:           h.Name,
		Description:    h.Description,
		Schedule:       h.Schedule[:],
		CompletedDates: h.CompletedDates,
		Notes:          h.Notes,
		Photos:         h.Photos,
		Pinned:         h.Pinned,
	}, nil
}

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	schedule, err := models.ScheduleFromSlice(input.Schedule)
	if err != nil {
		return nil, habitOutput{}, err
	}
	h, err := s.store.Create(ctx, store.Draft{
		Name:        input.Name,
		Description: input.Description,
		Schedule:    schedule,
	})
	if err != nil {
		return nil, habitOutput{}, fmt.Errorf("create habit: %w", err)
	}
	return nil, habitOutput{
		ID:       h.ID,
		Name:     h.Name,
		Schedule: h.Schedule.String(),
		Message:  fmt.Sprintf("Created habit %q", h.Name),
	}, nil
}

func (s *Server) handleToggleCompletion(ctx context.Context, req *mcp.CallToolRequest, input toggleCompletionInput) (*mcp.CallToolResult, toggleCompletionOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, toggleCompletionOutput{}, err
	}
	date := input.Date
	if date == "" {
		date = models.FormatDate(time.Now())
	}
	h, done, err := s.store.ToggleCompletion(ctx, id, date)
	if err != nil {
		return nil, toggleCompletionOutput{}, fmt.Errorf("toggle completion: %w", err)
	}
	msg := fmt.Sprintf("Marked %q done on %s", h.Name, date)
	if !done {
		msg = fmt.Sprintf("Removed completion of %q on %s", h.Name, date)
	}
	return nil, toggleCompletionOutput{ID: h.ID, Date: date, Completed: done, Message: msg}, nil
}

func (s *Server) handleSetNote(ctx context.Context, req *mcp.CallToolRequest, input setNoteInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	h, err := s.store.SetNote(ctx, id, input.Date, input.Note)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("set note: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Noted %s on %q", input.Date, h.Name)}, nil
}

func (s *Server) handlePinHabit(ctx context.Context, req *mcp.CallToolRequest, input pinHabitInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	h, err := s.store.TogglePin(ctx, id)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("toggle pin: %w", err)
	}
	msg := fmt.Sprintf("Unpinned %q", h.Name)
	if h.Pinned {
		msg = fmt.Sprintf("Pinned %q", h.Name)
	}
	return nil, simpleOutput{Message: msg}, nil
}

func (s *Server) handleHabitStats(ctx context.Context, req *mcp.CallToolRequest, input habitStatsInput) (*mcp.CallToolResult, habitStatsOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, habitStatsOutput{}, err
	}
	window := stats.AllTime
	if input.Days > 0 {
		window = stats.LastNDays(input.Days)
	}
	hs, err := s.store.Stats(ctx, id, window)
	if err != nil {
		return nil, habitStatsOutput{}, fmt.Errorf("compute stats: %w", err)
	}
	return nil, habitStatsOutput{
		Name:           hs.Habit.Name,
		CurrentStreak:  hs.Stats.CurrentStreak,
		BestStreak:     hs.Stats.BestStreak,
		CompletionRate: hs.Stats.CompletionRate,
		TotalDays:      hs.Stats.TotalDays,
		Stale:          hs.Stale,
	}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, req *mcp.CallToolRequest, input deleteHabitInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.store.Resolve(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("delete habit: %w", err)
	}
	return nil, simpleOutput{Message: "Deleted " + id}, nil
}
