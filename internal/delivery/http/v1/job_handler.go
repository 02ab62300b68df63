package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC         domain.JobUsecase
	applicationUC domain.ApplicationUsecase
}

func NewJobHandler(authenticated *gin.RouterGroup, jobUC domain.JobUsecase, applicationUC domain.ApplicationUsecase) {
	handler := &JobHandler{jobUC: jobUC, applicationUC: applicationUC}

	jobs := authenticated.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/:id", handler.GetDetails)
		jobs.POST("/:id/apply", handler.Apply)
	}
	authenticated.GET("/applications", handler.MyApplications)
}

type ApplyRequest struct {
	Message *string `json:"message"`
}

// List godoc
// @Summary      Open jobs
// @Description  Paginated list of open jobs. scope=supervised lists the jobs the caller supervises.
// @Tags         jobs
// @Produce      json
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(20)
// @Param        scope      query  string  false  "supervised"
// @Success      200  {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	if c.Query("scope") == "supervised" {
		jobs, err := h.jobUC.ListSupervisedJobs(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Supervised jobs retrieved", gin.H{"jobs": jobs})
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	jobs, total, err := h.jobUC.ListOpenJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":     jobs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetDetails godoc
// @Summary      Job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", gin.H{
		"job":       job,
		"slotsLeft": job.SlotsLeft(),
	})
}

// Apply godoc
// @Summary      Apply for a job
// @Description  Promoters only. One application per job.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id       path  string        true   "Job ID"
// @Param        request  body  ApplyRequest  false  "Cover message"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /jobs/{id}/apply [post]
func (h *JobHandler) Apply(c *gin.Context) {
	if currentViewer(c).UserType != domain.UserTypePromoter {
		c.Error(apperror.Forbidden("Only promoters can apply for jobs"))
		return
	}

	var req ApplyRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), currentUserID(c), c.Param("id"), req.Message)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// MyApplications godoc
// @Summary      My applications
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /applications [get]
func (h *JobHandler) MyApplications(c *gin.Context) {
	apps, err := h.applicationUC.ListMyApplications(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", gin.H{"applications": apps})
}
