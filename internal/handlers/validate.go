package handlers

import (
	"mime"
	"net/http"
	"strings"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models/task"
	"taskBoard/internal/service"
	"taskBoard/internal/timeutil"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// formToDraft проверяет форму так же, как это делал редактор задачи:
// заголовок обязателен, время должно читаться, конец раньше начала подтягивается к началу
func formToDraft(req dto.TaskFormRequest) (task.Draft, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return task.Draft{}, service.NewValidationError("title", "название не может быть пустым")
	}

	start := strings.TrimSpace(req.StartTime)
	end := strings.TrimSpace(req.EndTime)

	startSec, startOK := timeutil.ToSeconds(start)
	if start != "" && !startOK {
		return task.Draft{}, service.NewValidationError("start_time", "ожидается формат HH:MM[:SS]")
	}
	endSec, endOK := timeutil.ToSeconds(end)
	if end != "" && !endOK {
		return task.Draft{}, service.NewValidationError("end_time", "ожидается формат HH:MM[:SS]")
	}

	if startOK && endOK && endSec < startSec {
		end = start
	}

	return task.NewDraft(title,
		task.WithDescription(req.Description),
		task.WithWindow(start, end),
		task.WithSubtasks(req.ToSubtasks()...),
	), nil
}
