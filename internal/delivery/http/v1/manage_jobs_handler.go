package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ManageJobsHandler serves the company's events and job postings.
type ManageJobsHandler struct {
	eventUC domain.EventUsecase
	jobUC   domain.JobUsecase
}

func NewManageJobsHandler(company *gin.RouterGroup, eventUC domain.EventUsecase, jobUC domain.JobUsecase) {
	handler := &ManageJobsHandler{eventUC: eventUC, jobUC: jobUC}

	manage := company.Group("/manage-jobs")
	{
		manage.GET("", handler.Overview)

		manage.POST("/events", handler.CreateEvent)
		manage.GET("/events/:id", handler.GetEvent)
		manage.PUT("/events/:id", handler.UpdateEvent)
		manage.DELETE("/events/:id", handler.DeleteEvent)

		manage.POST("/jobs", handler.CreateJob)
		manage.PUT("/jobs/:id", handler.UpdateJob)
		manage.PATCH("/jobs/:id/status", handler.UpdateJobStatus)
	}
}

type JobStatusRequest struct {
	Status domain.JobStatus `json:"status"`
}

// Overview godoc
// @Summary      Manage jobs page
// @Description  The company's events and jobs
// @Tags         manage-jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /manage-jobs [get]
func (h *ManageJobsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	events, err := h.eventUC.ListMyEvents(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}
	jobs, err := h.jobUC.ListCompanyJobs(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Events and jobs retrieved", gin.H{
		"events": events,
		"jobs":   jobs,
	})
}

// CreateEvent godoc
// @Summary      Create event
// @Tags         manage-jobs
// @Accept       json
// @Produce      json
// @Param        event  body      domain.EventInput  true  "Event"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /manage-jobs/events [post]
func (h *ManageJobsHandler) CreateEvent(c *gin.Context) {
	var input domain.EventInput
	if !bindJSON(c, &input) {
		return
	}
	event, err := h.eventUC.CreateEvent(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Event created successfully", event)
}

// GetEvent godoc
// @Summary      Event details
// @Tags         manage-jobs
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /manage-jobs/events/{id} [get]
func (h *ManageJobsHandler) GetEvent(c *gin.Context) {
	event, err := h.eventUC.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event retrieved", event)
}

// UpdateEvent godoc
// @Summary      Update event
// @Tags         manage-jobs
// @Accept       json
// @Produce      json
// @Param        id     path      string             true  "Event ID"
// @Param        event  body      domain.EventInput  true  "Event"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /manage-jobs/events/{id} [put]
func (h *ManageJobsHandler) UpdateEvent(c *gin.Context) {
	var input domain.EventInput
	if !bindJSON(c, &input) {
		return
	}
	event, err := h.eventUC.UpdateEvent(c.Request.Context(), currentUserID(c), c.Param("id"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event updated successfully", event)
}

// DeleteEvent godoc
// @Summary      Delete event
// @Tags         manage-jobs
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /manage-jobs/events/{id} [delete]
func (h *ManageJobsHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventUC.DeleteEvent(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event deleted successfully", nil)
}

// CreateJob godoc
// @Summary      Create job
// @Tags         manage-jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /manage-jobs/jobs [post]
func (h *ManageJobsHandler) CreateJob(c *gin.Context) {
	var input domain.JobInput
	if !bindJSON(c, &input) {
		return
	}
	job, err := h.jobUC.CreateJob(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

// UpdateJob godoc
// @Summary      Update job
// @Tags         manage-jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string           true  "Job ID"
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      200  {object}  response.Response
// @Router       /manage-jobs/jobs/{id} [put]
func (h *ManageJobsHandler) UpdateJob(c *gin.Context) {
	var input domain.JobInput
	if !bindJSON(c, &input) {
		return
	}
	job, err := h.jobUC.UpdateJob(c.Request.Context(), currentUserID(c), c.Param("id"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

// UpdateJobStatus godoc
// @Summary      Change job status
// @Tags         manage-jobs
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "Job ID"
// @Param        request  body  JobStatusRequest  true  "open, filled, closed or cancelled"
// @Success      200  {object}  response.Response
// @Router       /manage-jobs/jobs/{id}/status [patch]
func (h *ManageJobsHandler) UpdateJobStatus(c *gin.Context) {
	var req JobStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.jobUC.UpdateJobStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req.Status); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job status updated", gin.H{"status": req.Status})
}
