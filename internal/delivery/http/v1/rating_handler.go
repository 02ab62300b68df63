package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingUC domain.RatingUsecase
}

func NewRatingHandler(authenticated *gin.RouterGroup, ratingUC domain.RatingUsecase) {
	handler := &RatingHandler{ratingUC: ratingUC}

	ratings := authenticated.Group("/ratings")
	{
		ratings.GET("", handler.Mine)
		ratings.POST("", handler.Submit)
		ratings.GET("/:userId", handler.ForUser)
	}
}

// Mine godoc
// @Summary      Ratings page
// @Description  Ratings received by the caller, with the average, and the ratings they gave
// @Tags         ratings
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /ratings [get]
func (h *RatingHandler) Mine(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	received, err := h.ratingUC.ListForUser(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}
	given, err := h.ratingUC.ListGiven(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Ratings retrieved", gin.H{
		"received": received,
		"given":    given,
	})
}

// Submit godoc
// @Summary      Rate a user
// @Description  Score 1 to 5 for a user you worked with on a job
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        rating  body      domain.RatingInput  true  "Rating"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /ratings [post]
func (h *RatingHandler) Submit(c *gin.Context) {
	var input domain.RatingInput
	if !bindJSON(c, &input) {
		return
	}
	input.RaterID = currentUserID(c)

	rating, err := h.ratingUC.Submit(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Rating submitted successfully", rating)
}

// ForUser godoc
// @Summary      Ratings of a user
// @Tags         ratings
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response
// @Router       /ratings/{userId} [get]
func (h *RatingHandler) ForUser(c *gin.Context) {
	summary, err := h.ratingUC.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Ratings retrieved", summary)
}
