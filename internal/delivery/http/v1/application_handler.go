package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler lets a company review applications to its jobs.
type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(company *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	manage := company.Group("/manage-jobs")
	{
		manage.GET("/jobs/:id/applications", handler.ListForJob)
		manage.POST("/applications/:id/approve", handler.Approve)
		manage.POST("/applications/:id/reject", handler.Reject)
	}
}

// ListForJob godoc
// @Summary      Applications for a job
// @Tags         manage-jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /manage-jobs/jobs/{id}/applications [get]
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	apps, err := h.applicationUC.ListJobApplications(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", gin.H{"applications": apps})
}

// Approve godoc
// @Summary      Approve application
// @Description  Fills one position of the job
// @Tags         manage-jobs
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /manage-jobs/applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *gin.Context) {
	h.review(c, true, "Application approved")
}

// Reject godoc
// @Summary      Reject application
// @Tags         manage-jobs
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Router       /manage-jobs/applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.review(c, false, "Application rejected")
}

func (h *ApplicationHandler) review(c *gin.Context, approve bool, message string) {
	if err := h.applicationUC.ReviewApplication(c.Request.Context(), currentUserID(c), c.Param("id"), approve); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, nil)
}
