package handlers

import (
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/pagination"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// JobHandler handles job endpoints
type JobHandler struct {
	jobService *services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

type jobStatusRequest struct {
	Status domain.JobStatus `json:"status"`
}

type assignRequest struct {
	WorkerID string `json:"workerId"`
}

// ListJobs searches jobs
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param workType query string false "Work category"
// @Param location query string false "Location contains"
// @Param status query string false "Job status"
// @Param employerId query string false "Posted by"
// @Param assignedWorkerId query string false "Assigned to"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {array} models.Job
// @Header 200 {integer} X-Total-Count "Total matching jobs"
// @Header 200 {integer} X-Total-Pages "Number of pages at the requested limit"
// @Failure 400 {object} response.ErrorBody
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	employerID, err := optionalUUIDQuery(c, "employerId")
	if err != nil {
		return err
	}
	workerID, err := optionalUUIDQuery(c, "assignedWorkerId")
	if err != nil {
		return err
	}
	params := pagination.GetParams(c)

	jobs, total, err := h.jobService.List(c.Context(), &services.ListJobsInput{
		WorkType:         c.Query("workType"),
		Location:         c.Query("location"),
		Status:           domain.JobStatus(c.Query("status")),
		EmployerID:       employerID,
		AssignedWorkerID: workerID,
		Page:             params.Page,
		Limit:            params.Limit,
	})
	if err != nil {
		return err
	}

	pagination.SetTotal(c, params, total)
	return response.OK(c, jobs)
}

// GetJob gets a job by ID
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.Job
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, job)
}

// CreateJob posts a job
// @Summary Post a job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body services.CreateJobInput true "Job"
// @Success 201 {object} models.Job
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.CreateJobInput
	if err := bind(c, createJobSchema, &input); err != nil {
		return err
	}

	job, err := h.jobService.Create(c.Context(), p, &input)
	if err != nil {
		return err
	}
	return response.Created(c, job)
}

// UpdateStatus moves a job to a new status
// @Summary Update job status
// @Description awaiting_payment completes the work, cancelled cancels, completed settles offline
// @Tags Jobs
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Job ID"
// @Param body body jobStatusRequest true "Target status"
// @Success 200 {object} models.Job
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req jobStatusRequest
	if err := bind(c, jobStatusSchema, &req); err != nil {
		return err
	}

	job, err := h.jobService.UpdateStatus(c.Context(), p, id, req.Status)
	if err != nil {
		return err
	}
	return response.OK(c, job)
}

// Assign assigns a worker to an open job
// @Summary Assign worker
// @Tags Jobs
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Job ID"
// @Param body body assignRequest true "Worker"
// @Success 200 {object} models.Job
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{id}/assign [post]
func (h *JobHandler) Assign(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req assignRequest
	if err := bind(c, assignSchema, &req); err != nil {
		return err
	}
	workerID, err := parseUUID(req.WorkerID, "workerId")
	if err != nil {
		return err
	}

	job, err := h.jobService.Assign(c.Context(), p, id, workerID)
	if err != nil {
		return err
	}
	return response.OK(c, job)
}

// Complete marks the work done
// @Summary Complete job
// @Tags Jobs
// @Produce json
// @Security SessionCookie
// @Param id path string true "Job ID"
// @Success 200 {object} models.Job
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{id}/complete [post]
func (h *JobHandler) Complete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.Complete(c.Context(), p, id)
	if err != nil {
		return err
	}
	return response.OK(c, job)
}

// Cancel cancels a job
// @Summary Cancel job
// @Tags Jobs
// @Produce json
// @Security SessionCookie
// @Param id path string true "Job ID"
// @Success 200 {object} models.Job
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /jobs/{id}/cancel [post]
func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.Cancel(c.Context(), p, id)
	if err != nil {
		return err
	}
	return response.OK(c, job)
}
