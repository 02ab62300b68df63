package v1

import (
	"net/http"
	"time"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the read-only pages: landing, dashboard, training,
// admin and calendar.
type PageHandler struct {
	overviewUC domain.OverviewUsecase
	eventUC    domain.EventUsecase
}

func NewPageHandler(public, authenticated *gin.RouterGroup, overviewUC domain.OverviewUsecase, eventUC domain.EventUsecase) {
	handler := &PageHandler{overviewUC: overviewUC, eventUC: eventUC}

	public.GET("/", handler.Landing)

	authenticated.GET("/dashboard", handler.Dashboard)
	authenticated.GET("/training", handler.Training)
	authenticated.GET("/admin", handler.Admin)
	authenticated.GET("/calendar", handler.Calendar)
}

// Landing godoc
// @Summary      Landing page
// @Description  Platform stats and the latest open jobs
// @Tags         pages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       / [get]
func (h *PageHandler) Landing(c *gin.Context) {
	stats, jobs, err := h.overviewUC.Landing(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Welcome", gin.H{
		"stats":      stats,
		"latestJobs": jobs,
	})
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Sections depend on the caller's user type
// @Tags         pages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /dashboard [get]
func (h *PageHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.overviewUC.Dashboard(c.Request.Context(), currentViewer(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", gin.H{
		"dashboard": dashboard,
		"error":     c.Query("error"),
	})
}

// Training godoc
// @Summary      Training modules
// @Tags         pages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /training [get]
func (h *PageHandler) Training(c *gin.Context) {
	response.Success(c, http.StatusOK, "Training modules retrieved", gin.H{
		"modules": h.overviewUC.Training(currentViewer(c)),
	})
}

// Admin godoc
// @Summary      Admin overview
// @Description  Platform-wide counts
// @Tags         pages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin [get]
func (h *PageHandler) Admin(c *gin.Context) {
	stats, err := h.overviewUC.Admin(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Platform overview retrieved", stats)
}

// Calendar godoc
// @Summary      Calendar
// @Description  Events in range that concern the caller. Defaults to the current month.
// @Tags         pages
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /calendar [get]
func (h *PageHandler) Calendar(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	var ok bool
	if from, ok = parseDate(c, "from", from); !ok {
		return
	}
	if to, ok = parseDate(c, "to", to); !ok {
		return
	}

	events, err := h.eventUC.ListCalendar(c.Request.Context(), currentViewer(c), from, to)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Calendar retrieved", gin.H{
		"from":   from,
		"to":     to,
		"events": events,
	})
}

func parseDate(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid " + name + " date, expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	if name == "to" {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, true
}
