package task

// Draft - кандидат на создание или полную замену задачи.
// id, статус и временные метки выставляет сервис
type Draft struct {
	Title       string
	Description string
	Subtasks    []SubTask
	StartTime   string
	EndTime     string
}

type DraftOption func(*Draft)

func NewDraft(title string, options ...DraftOption) Draft {
	draft := Draft{Title: title}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&draft)
	}
	return draft
}

func WithDescription(description string) DraftOption {
	if description == "" {
		return nil
	}
	return func(draft *Draft) {
		draft.Description = description
	}
}

// WithWindow задаёт время начала и конца, любая из границ может быть пустой
func WithWindow(start, end string) DraftOption {
	return func(draft *Draft) {
		draft.StartTime = start
		draft.EndTime = end
	}
}

func WithSubtasks(subtasks ...SubTask) DraftOption {
	if len(subtasks) == 0 {
		return nil
	}
	return func(draft *Draft) {
		draft.Subtasks = append(draft.Subtasks, subtasks...)
	}
}
