package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sweeply/marketplace-be/internal/api/dto"
	"github.com/sweeply/marketplace-be/internal/lifecycle"
)

// CreateJob handles POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), caller, lifecycle.CreateJobInput{
		Title:           req.Title,
		Description:     req.Description,
		WorkerQuantity:  req.WorkerQuantity,
		Price:           req.Price,
		SizeGarbage:     req.SizeGarbage,
		TypeOfGarbage:   req.TypeOfGarbage,
		CleaningType:    req.CleaningType,
		MeasurementUnit: req.MeasurementUnit,
		Location:        req.Location,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job created", "job_id", job.JobID, "client_id", caller.ID)
	c.JSON(http.StatusCreated, dto.FromJob(job))
}

// GetJobs handles GET /jobs. The listing hides jobs that are already
// in progress or cancelled by their client.
func (h *JobHandler) GetJobs(c *gin.Context) {
	jobs, err := h.jobs.GetJobs(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromJobs(jobs))
}

// GetJobByID handles GET /jobs/:id
func (h *JobHandler) GetJobByID(c *gin.Context) {
	job, err := h.jobs.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// GetJobsByClientID handles GET /jobs/client/:userId
func (h *JobHandler) GetJobsByClientID(c *gin.Context) {
	jobs, err := h.jobs.GetJobsByClientID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromJobs(jobs))
}

// GetClientJobs handles GET /jobs/client, the caller's own postings
// joined with the name of the worker who claimed each one.
func (h *JobHandler) GetClientJobs(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	jobs, err := h.jobs.GetClientJobs(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOwnedJobs(jobs))
}

// GetMyJobs handles GET /jobs/worker, the jobs the caller has accepted.
func (h *JobHandler) GetMyJobs(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	jobs, err := h.jobs.GetMyJobs(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAssignedJobs(jobs))
}

// UpdateJob handles PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), caller, c.Param("id"), req.ToPatch())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// AcceptJob handles POST /jobs/:id/accept
func (h *JobHandler) AcceptJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobs.AcceptJob(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job accepted", "job_id", job.JobID, "worker_id", caller.ID)
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// CancelJob handles POST /jobs/:id/cancel. The worker walks away and
// the job returns to the open pool.
func (h *JobHandler) CancelJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobs.CancelJob(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job released", "job_id", job.JobID, "caller_id", caller.ID)
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// CancelOrder handles POST /jobs/:id/cancel-order, the client-side
// cancellation of their own posting.
func (h *JobHandler) CancelOrder(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobs.CancelOrder(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("order cancelled", "job_id", job.JobID, "client_id", caller.ID)
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// ReactivateJob handles POST /jobs/:id/reactivate
func (h *JobHandler) ReactivateJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobs.ReactivateJob(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job reactivated", "job_id", job.JobID, "client_id", caller.ID)
	c.JSON(http.StatusOK, dto.FromJob(job))
}
