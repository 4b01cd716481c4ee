package handlers

import (
	"encoding/json"
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type TaskHandler struct {
	TaskService Service
	Board       BoardProjector
}

func NewTaskHandler(taskService Service, projector BoardProjector) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		Board:       projector,
	}
}

// Routes регистрирует маршруты доски
func (s *TaskHandler) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/board", s.GetBoard)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)     // GET /tasks?status=
		r.Post("/", s.PostTask)     // POST /tasks
		r.Delete("/", s.ResetBoard) // DELETE /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)          // GET /tasks/{id}
			r.Put("/", s.UpdateTaskByID)       // PUT /tasks/{id}
			r.Delete("/", s.DeleteTaskByID)    // DELETE /tasks/{id}
			r.Patch("/status", s.ChangeStatus) // PATCH /tasks/{id}/status
		})
	})
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис нездоров", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", "taskboard"),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "taskboard"),
	)
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var (
		tasks []task.Task
		err   error
	)

	if status := r.URL.Query().Get("status"); status != "" {
		tasks, err = s.TaskService.ListTasksByStatus(r.Context(), task.Status(status))
	} else {
		tasks, err = s.TaskService.ListTasks(r.Context())
	}
	if err != nil {
		handleError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("count", len(tasks)),
	)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.TaskFormRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	draft, err := formToDraft(request)
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	created, err := s.TaskService.AddTask(r.Context(), draft)
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created)))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found)))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.TaskFormRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	draft, err := formToDraft(request)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, draft)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

// ChangeStatus - перетаскивание карточки в другую колонку
func (s *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.ChangeStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	moved, err := s.TaskService.ChangeStatus(r.Context(), id, request.Status)
	if err != nil {
		handleError(w, r, err, "change_status")
		return
	}

	if moved == nil {
		logger.Info("HTTP_OUT: Задача для переноса не найдена, ничего не изменено",
			zap.String("task_id", id.String()))
		responseNoContent(w)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(moved)))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := s.TaskService.DeleteTask(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Удаление задачи",
		zap.String("task_id", id.String()),
		zap.Bool("deleted", deleted))

	responseNoContent(w)
}

func (s *TaskHandler) ResetBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.TaskService.Reset(r.Context()); err != nil {
		handleError(w, r, err, "reset_board")
		return
	}

	logger.Info("HTTP_OUT: Доска очищена")
	responseNoContent(w)
}

func (s *TaskHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.Board.Board(r.Context())
	if err != nil {
		handleError(w, r, err, "get_board")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("board", dto.FromBoard(b)))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return false
	}

	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}
