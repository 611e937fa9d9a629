// Package web provides the REST API surface of the Orbit console.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/persistence"
	"github.com/orbithq/orbit/pkg/service"
)

type APIHandlers struct {
	service     *service.Service
	persistence persistence.Persistence
	validator   *validator.Validate
}

func NewAPIHandlers(
	svc *service.Service,
	persist persistence.Persistence,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		service:     svc,
		persistence: persist,
		validator:   validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Orbit console is healthy"
	httpStatus := http.StatusOK

	persistenceCheck := "ok"
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "Orbit console is unhealthy"
		httpStatus = http.StatusInternalServerError
		persistenceCheck = err.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"persistence": persistenceCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows := h.service.GetAllWorkflows()

	activeWorkflowID := ""
	if active := h.service.GetActiveWorkflow(); active != nil {
		activeWorkflowID = active.ID
	}

	return c.JSON(fiber.Map{
		"workflows":          workflows,
		"active_workflow_id": activeWorkflowID,
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow := h.service.GetWorkflow(id)
	if workflow == nil {
		return notFound(c, "Workflow not found")
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) GenerateWorkflow(c fiber.Ctx) error {
	var req GenerateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflowID, err := h.service.GenerateWorkflow(c.Context(), req.Prompt)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.service.GetWorkflow(workflowID))
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.service.DeleteWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ActivateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.service.SetActiveWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(h.service.GetWorkflow(id))
}

func (h *APIHandlers) CompleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.service.MarkWorkflowAsCompleted(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(h.service.GetWorkflow(id))
}

func (h *APIHandlers) DuplicateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	duplicateID, err := h.service.DuplicateWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.service.GetWorkflow(duplicateID))
}

func (h *APIHandlers) ClearAllData(c fiber.Ctx) error {
	if err := h.service.ClearAllData(c.Context()); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetTasks(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if h.service.GetWorkflow(id) == nil {
		return notFound(c, "Workflow not found")
	}

	return c.JSON(fiber.Map{
		"tasks": h.service.GetOrderedTasks(id),
	})
}

func (h *APIHandlers) GetNextTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if h.service.GetWorkflow(id) == nil {
		return notFound(c, "Workflow not found")
	}

	task := h.service.GetNextTask(id)
	if task == nil {
		return notFound(c, "No pending tasks")
	}

	return c.JSON(task)
}

func (h *APIHandlers) AddTask(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req AddTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	task := &models.Task{
		Type:          models.TaskType(req.Type),
		Title:         req.Title,
		Description:   req.Description,
		Priority:      models.Priority(req.Priority),
		EstimatedTime: req.EstimatedTime,
		Order:         req.Order,
		Position:      req.Position,
		Config:        req.Config,
	}

	taskID, err := h.service.AddTaskToWorkflow(c.Context(), id, task)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": taskID})
}

func (h *APIHandlers) RemoveTask(c fiber.Ctx) error {
	id := c.Params("id")
	taskID := c.Params("taskId")

	if id == "" || taskID == "" {
		return badRequest(c, "Workflow ID and task ID are required")
	}

	if err := h.service.RemoveTaskFromWorkflow(c.Context(), id, taskID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateTaskStatus(c fiber.Ctx) error {
	id := c.Params("id")
	taskID := c.Params("taskId")

	if id == "" || taskID == "" {
		return badRequest(c, "Workflow ID and task ID are required")
	}

	var req UpdateTaskStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.service.UpdateTaskStatus(c.Context(), id, taskID, models.TaskStatus(req.Status), req.Error, nil)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateTaskConfig(c fiber.Ctx) error {
	id := c.Params("id")
	taskID := c.Params("taskId")

	if id == "" || taskID == "" {
		return badRequest(c, "Workflow ID and task ID are required")
	}

	var req UpdateTaskConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.UpdateTaskConfig(c.Context(), id, taskID, req.Config); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateTaskPosition(c fiber.Ctx) error {
	id := c.Params("id")
	taskID := c.Params("taskId")

	if id == "" || taskID == "" {
		return badRequest(c, "Workflow ID and task ID are required")
	}

	var req UpdateTaskPositionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	position := models.Position{X: req.X, Y: req.Y}
	if err := h.service.UpdateTaskPosition(c.Context(), id, taskID, position); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ExecuteTask(c fiber.Ctx) error {
	id := c.Params("id")
	taskID := c.Params("taskId")

	if id == "" || taskID == "" {
		return badRequest(c, "Workflow ID and task ID are required")
	}

	var req ExecuteTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow := h.service.GetWorkflow(id)
	if workflow == nil {
		return notFound(c, "Workflow not found")
	}

	task := workflow.TaskByID(taskID)
	if task == nil {
		return notFound(c, "Task not found")
	}

	taskType := task.Type
	if req.Type != "" {
		taskType = models.TaskType(req.Type)
	}

	config := task.Config
	if req.Config != nil {
		config = req.Config
	}

	if err := h.service.ExecuteTask(c.Context(), id, taskID, taskType, config); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(h.service.GetWorkflow(id).TaskByID(taskID))
}

func (h *APIHandlers) GetNotes(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if h.service.GetWorkflow(id) == nil {
		return notFound(c, "Workflow not found")
	}

	return c.JSON(fiber.Map{
		"notes": h.service.GetNotes(id),
	})
}

func (h *APIHandlers) AddNote(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req AddNoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	noteID, err := h.service.AddNote(c.Context(), id, req.Content, models.NoteType(req.Type))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": noteID})
}

func (h *APIHandlers) UpdateNote(c fiber.Ctx) error {
	id := c.Params("id")
	noteID := c.Params("noteId")

	if id == "" || noteID == "" {
		return badRequest(c, "Workflow ID and note ID are required")
	}

	var req UpdateNoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.UpdateNote(c.Context(), id, noteID, req.Content); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteNote(c fiber.Ctx) error {
	id := c.Params("id")
	noteID := c.Params("noteId")

	if id == "" || noteID == "" {
		return badRequest(c, "Workflow ID and note ID are required")
	}

	if err := h.service.DeleteNote(c.Context(), id, noteID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
