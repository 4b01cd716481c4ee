package persistence

import (
	"encoding/json"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type boardDocument struct {
	Tasks []taskRecord `json:"tasks"`
}

// taskRecord повторяет формат, в котором клиент хранил задачи
type taskRecord struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Subtasks      []subtaskRecord `json:"subtasks"`
	StartTime     string          `json:"startTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	LastUpdatedAt string          `json:"lastUpdatedAt,omitempty"`
}

type subtaskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func Encode(tasks []task.Task) ([]byte, error) {
	doc := boardDocument{Tasks: make([]taskRecord, 0, len(tasks))}

	for _, t := range tasks {
		rec := taskRecord{
			ID:            t.ID.String(),
			Title:         t.Title,
			Description:   t.Description,
			Status:        string(t.Status),
			Subtasks:      make([]subtaskRecord, 0, len(t.Subtasks)),
			StartTime:     t.StartTime,
			EndTime:       t.EndTime,
			CreatedAt:     formatTime(t.CreatedAt),
			LastUpdatedAt: formatTime(t.LastUpdatedAt),
		}
		for _, st := range t.Subtasks {
			rec.Subtasks = append(rec.Subtasks, subtaskRecord(st))
		}
		doc.Tasks = append(doc.Tasks, rec)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("сериализация задач: %w", err)
	}
	return data, nil
}

// Decode прощает старые и неполные записи: без статуса - todo,
// нечитаемая метка времени - нулевое время, запись без корректного id пропускается.
// Если не читается lastUpdatedAt, обнуляется и createdAt: у такой задачи нет
// известной последней активности
func Decode(data []byte) ([]task.Task, error) {
	var doc boardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("разбор документа доски: %w", err)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for i, rec := range doc.Tasks {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			logger.Warn("Persistence: Пропущена запись без корректного id",
				zap.Int("index", i),
				zap.String("id", rec.ID))
			continue
		}

		status := task.Status(rec.Status)
		if !status.Valid() {
			status = task.StatusTodo
		}

		createdAt, _ := parseTime(rec.CreatedAt)
		lastUpdatedAt, ok := parseTime(rec.LastUpdatedAt)
		if !ok {
			// испорченная отметка изменения не заменяется временем создания,
			// иначе очистка удалит задачу по устаревшему createdAt
			createdAt = time.Time{}
		}

		t := task.Task{
			ID:            id,
			Title:         rec.Title,
			Description:   rec.Description,
			Status:        status,
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			CreatedAt:     createdAt,
			LastUpdatedAt: lastUpdatedAt,
		}
		if len(rec.Subtasks) > 0 {
			t.Subtasks = make([]task.SubTask, 0, len(rec.Subtasks))
			for _, st := range rec.Subtasks {
				if st.ID == "" {
					st.ID = uuid.NewString()
				}
				t.Subtasks = append(t.Subtasks, task.SubTask(st))
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime возвращает ok == false, только если значение есть, но не читается
func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		logger.Debug("Persistence: Нечитаемая метка времени", zap.String("value", value))
		return time.Time{}, false
	}
	return t, true
}
