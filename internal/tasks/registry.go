package tasks

import (
	"fmt"

	"github.com/mikestefanello/backlite"
)

// TypeInfo describes a task type that can be triggered on demand.
type TypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// Types lists the task types accepted by NewTask.
func Types() []TypeInfo {
	return []TypeInfo{
		{
			Type:        SweepOrphanLinksQueue,
			Description: "Delete student/book links whose student or book no longer exists",
			Queue:       SweepOrphanLinksQueue,
		},
	}
}

// NewTask builds a task of the named type.
func NewTask(taskType, trigger string) (backlite.Task, error) {
	switch taskType {
	case SweepOrphanLinksQueue:
		return SweepOrphanLinksTask{Trigger: trigger}, nil
	default:
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}
}
