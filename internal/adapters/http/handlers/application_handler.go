package handlers

import (
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ApplicationHandler handles job application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

type applyRequest struct {
	JobID    string `json:"jobId"`
	WorkerID string `json:"workerId"`
	Message  string `json:"message"`
}

type applicationStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

// Apply files an application
// @Summary Apply for a job
// @Tags Applications
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body applyRequest true "Application"
// @Success 201 {object} models.JobApplication
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bind(c, applySchema, &req); err != nil {
		return err
	}
	jobID, err := parseUUID(req.JobID, "jobId")
	if err != nil {
		return err
	}
	workerID := uuid.Nil
	if req.WorkerID != "" {
		if workerID, err = parseUUID(req.WorkerID, "workerId"); err != nil {
			return err
		}
	}

	app, err := h.applicationService.Apply(c.Context(), p, &services.ApplyInput{
		JobID:    jobID,
		WorkerID: workerID,
		Message:  req.Message,
	})
	if err != nil {
		return err
	}
	return response.Created(c, app)
}

// GetApplication gets an application
// @Summary Get application
// @Tags Applications
// @Produce json
// @Security SessionCookie
// @Param id path string true "Application ID"
// @Success 200 {object} models.JobApplication
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.applicationService.Get(c.Context(), p, id)
	if err != nil {
		return err
	}
	return response.OK(c, app)
}

// ListByJob lists a job's applications
// @Summary List job applications
// @Tags Applications
// @Produce json
// @Security SessionCookie
// @Param jobId path string true "Job ID"
// @Success 200 {array} models.JobApplication
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{jobId}/applications [get]
func (h *ApplicationHandler) ListByJob(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}

	apps, err := h.applicationService.ListByJob(c.Context(), p, jobID)
	if err != nil {
		return err
	}
	return response.OK(c, apps)
}

// ListByWorker lists a worker's applications
// @Summary List worker applications
// @Tags Applications
// @Produce json
// @Security SessionCookie
// @Param workerId path string true "Worker ID"
// @Success 200 {array} models.JobApplication
// @Failure 403 {object} response.ErrorBody
// @Router /workers/{workerId}/applications [get]
func (h *ApplicationHandler) ListByWorker(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	workerID, err := uuidParam(c, "workerId")
	if err != nil {
		return err
	}

	apps, err := h.applicationService.ListByWorker(c.Context(), p, workerID)
	if err != nil {
		return err
	}
	return response.OK(c, apps)
}

// UpdateStatus accepts, rejects or withdraws an application
// @Summary Update application status
// @Description Accepting assigns the job; fails with 409 when the job is no longer open
// @Tags Applications
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Application ID"
// @Param body body applicationStatusRequest true "Target status"
// @Success 200 {object} models.JobApplication
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req applicationStatusRequest
	if err := bind(c, applicationStatusSchema, &req); err != nil {
		return err
	}

	app, err := h.applicationService.UpdateStatus(c.Context(), p, id, req.Status)
	if err != nil {
		return err
	}
	return response.OK(c, app)
}
