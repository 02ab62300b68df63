package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyProfileHandler struct {
	companyUC domain.CompanyUsecase
	limiter   UploadLimiter
}

// NewCompanyProfileHandler registers company profile routes
func NewCompanyProfileHandler(company *gin.RouterGroup, companyUC domain.CompanyUsecase, limiter UploadLimiter) {
	handler := &CompanyProfileHandler{companyUC: companyUC, limiter: limiter}

	profile := company.Group("/company-profile")
	{
		profile.GET("", handler.Get)
		profile.PUT("", handler.Save)
		profile.POST("/logo", handler.UploadLogo)
	}
}

// Get godoc
// @Summary      Company profile
// @Description  The caller's company. 404 until the profile is first saved.
// @Tags         company-profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /company-profile [get]
func (h *CompanyProfileHandler) Get(c *gin.Context) {
	company, err := h.companyUC.GetMyCompany(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile retrieved", company)
}

// Save godoc
// @Summary      Create or update company profile
// @Tags         company-profile
// @Accept       json
// @Produce      json
// @Param        company  body      domain.CompanyInput  true  "Company"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /company-profile [put]
func (h *CompanyProfileHandler) Save(c *gin.Context) {
	var input domain.CompanyInput
	if !bindJSON(c, &input) {
		return
	}
	company, err := h.companyUC.SaveMyCompany(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile saved successfully", company)
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Tags         company-profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image (JPEG, PNG, GIF or WebP, max 5MB)"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /company-profile/logo [post]
func (h *CompanyProfileHandler) UploadLogo(c *gin.Context) {
	if !allowUpload(c, h.limiter) {
		return
	}
	upload, ok := readUpload(c, "file")
	if !ok {
		return
	}
	company, err := h.companyUC.UploadLogo(c.Request.Context(), currentUserID(c), upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logo updated successfully", company)
}
