package repository

import "errors"

// Common repository errors
var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrLabelNotFound is returned when a label is not found
	ErrLabelNotFound = errors.New("label not found")

	// ErrCommentNotFound is returned when a comment is not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrAssigneeNotFound is returned when a task payload references a
	// non-existent assignee
	ErrAssigneeNotFound = errors.New("assignee not found")

	// ErrParentTaskNotFound is returned when a task payload references a
	// non-existent parent task
	ErrParentTaskNotFound = errors.New("parent task not found")

	// ErrLabelsNotFound is returned when a task payload references labels
	// that do not exist in the task's workspace
	ErrLabelsNotFound = errors.New("one or more labels not found")

	// ErrParentTaskCycle is returned when a parent link would make a task
	// its own ancestor
	ErrParentTaskCycle = errors.New("parent task would create a cycle")
)
