package overlap

import (
	"taskBoard/internal/models/task"
	"taskBoard/internal/timeutil"

	"github.com/google/uuid"
)

// FindConflict возвращает первую задачу, чей интервал пересекается с кандидатом.
// Задача с excludeID пропускается (uuid.Nil - ничего не исключать).
// Кандидат без одной из границ ни с чем не пересекается
func FindConflict(start, end string, existing []task.Task, excludeID uuid.UUID) (task.Task, bool) {
	candidate, ok := timeutil.ParseWindow(start, end)
	if !ok {
		return task.Task{}, false
	}

	for _, t := range existing {
		if excludeID != uuid.Nil && t.ID == excludeID {
			continue
		}

		window, ok := timeutil.ParseWindow(t.StartTime, t.EndTime)
		if !ok {
			continue
		}

		if candidate.Overlaps(window) {
			return t, true
		}
	}

	return task.Task{}, false
}

func WouldOverlap(start, end string, existing []task.Task, excludeID uuid.UUID) bool {
	_, found := FindConflict(start, end, existing, excludeID)
	return found
}
