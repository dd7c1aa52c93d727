package domain

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	task, err := NewTask(1, "Write docs", "cover the gateway", TaskStatusInProgress, TaskPriorityHigh, &due)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "Write docs" {
		t.Errorf("Expected title %q, got %q", "Write docs", task.Title)
	}
	if task.UserID != 1 {
		t.Errorf("Expected user ID 1, got %d", task.UserID)
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %q, got %q", TaskStatusInProgress, task.Status)
	}
	if task.Priority != TaskPriorityHigh {
		t.Errorf("Expected priority %q, got %q", TaskPriorityHigh, task.Priority)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, task.DueDate)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewTaskDefaults(t *testing.T) {
	t.Parallel()

	task, err := NewTask(1, "Write docs", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status %q, got %q", TaskStatusPending, task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority %q, got %q", TaskPriorityMedium, task.Priority)
	}
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   int64
		title    string
		status   TaskStatus
		priority TaskPriority
		wantErr  error
	}{
		{name: "empty title", userID: 1, title: "", wantErr: ErrTaskTitleEmpty},
		{name: "whitespace title", userID: 1, title: "   ", wantErr: ErrTaskTitleEmpty},
		{name: "missing owner", userID: 0, title: "x", wantErr: ErrTaskOwnerEmpty},
		{name: "unknown status", userID: 1, title: "x", status: "done", wantErr: ErrInvalidTaskStatus},
		{name: "unknown priority", userID: 1, title: "x", priority: "critical", wantErr: ErrInvalidTaskPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTask(tt.userID, tt.title, "", tt.status, tt.priority, nil)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskUpdateApply(t *testing.T) {
	t.Parallel()

	task, err := NewTask(1, "Write docs", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	before := task.UpdatedAt

	title := "Write better docs"
	status := TaskStatusCompleted
	update := TaskUpdate{Title: &title, Status: &status}
	if err := update.Apply(task); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != title {
		t.Errorf("Expected title %q, got %q", title, task.Title)
	}
	if task.Status != TaskStatusCompleted {
		t.Errorf("Expected status %q, got %q", TaskStatusCompleted, task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected untouched priority %q, got %q", TaskPriorityMedium, task.Priority)
	}
	if task.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestTaskUpdateValidation(t *testing.T) {
	t.Parallel()

	empty := ""
	badStatus := TaskStatus("done")
	badPriority := TaskPriority("critical")

	tests := []struct {
		name    string
		update  TaskUpdate
		wantErr error
	}{
		{name: "empty title", update: TaskUpdate{Title: &empty}, wantErr: ErrTaskTitleEmpty},
		{name: "unknown status", update: TaskUpdate{Status: &badStatus}, wantErr: ErrInvalidTaskStatus},
		{name: "unknown priority", update: TaskUpdate{Priority: &badPriority}, wantErr: ErrInvalidTaskPriority},
		{name: "empty update is valid", update: TaskUpdate{}, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.update.Validate(); err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
