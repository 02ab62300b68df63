package v1

import (
	"context"
	"net/http"
	"strconv"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UploadLimiter caps avatar and logo uploads per IP and user.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

// ProfileRefresher re-reads the profile cached in the session after an edit.
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context, key string) error
}

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
	limiter   UploadLimiter
	sessions  ProfileRefresher
}

func NewProfileHandler(authenticated *gin.RouterGroup, profileUC domain.ProfileUsecase, limiter UploadLimiter, sessions ProfileRefresher) {
	handler := &ProfileHandler{profileUC: profileUC, limiter: limiter, sessions: sessions}

	profile := authenticated.Group("/profile")
	{
		profile.GET("", handler.Get)
		profile.PUT("", handler.Update)
		profile.POST("/avatar", handler.UploadAvatar)
	}
}

// Get godoc
// @Summary      Own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// Update godoc
// @Summary      Update own profile
// @Description  Name and phone only; the user type cannot change.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.ProfileUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var update domain.ProfileUpdate
	if !bindJSON(c, &update) {
		return
	}
	profile, err := h.profileUC.UpdateProfile(c.Request.Context(), currentUserID(c), update)
	if err != nil {
		c.Error(err)
		return
	}
	h.refreshSession(c)
	response.Success(c, http.StatusOK, "Profile updated successfully", profile)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image (JPEG, PNG, GIF or WebP, max 5MB)"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	if !allowUpload(c, h.limiter) {
		return
	}
	upload, ok := readUpload(c, "file")
	if !ok {
		return
	}
	profile, err := h.profileUC.UploadAvatar(c.Request.Context(), currentUserID(c), upload)
	if err != nil {
		c.Error(err)
		return
	}
	h.refreshSession(c)
	response.Success(c, http.StatusOK, "Avatar updated successfully", profile)
}

func (h *ProfileHandler) refreshSession(c *gin.Context) {
	if h.sessions == nil {
		return
	}
	key := c.GetString(string(domain.KeySessionKey))
	if err := h.sessions.RefreshProfile(c.Request.Context(), key); err != nil {
		logger.Log.Warn("Failed to refresh session profile", "error", err)
	}
}

func allowUpload(c *gin.Context, limiter UploadLimiter) bool {
	if limiter == nil {
		return true
	}
	allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), currentUserID(c))
	if err != nil {
		c.Error(apperror.New(http.StatusServiceUnavailable, "Uploads are temporarily unavailable. Please try again later", err))
		return false
	}
	if !allowed {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Error(apperror.TooManyRequests("Too many uploads. Please try again later"))
		return false
	}
	return true
}
