package v1

import (
	"io"
	"strconv"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 5 << 20

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

func currentViewer(c *gin.Context) domain.Viewer {
	return domain.Viewer{
		UserID:   currentUserID(c),
		UserType: domain.UserType(c.GetString(string(domain.KeyUserRole))),
	}
}

// bindJSON reports malformed bodies as a 400; field rules are checked by the
// use-cases.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// readUpload loads the multipart field into memory, capped at maxUploadBytes.
func readUpload(c *gin.Context, field string) (domain.FileUpload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return domain.FileUpload{}, false
	}
	if header.Size > maxUploadBytes {
		c.Error(apperror.BadRequest("File too large. Maximum size is 5MB"))
		return domain.FileUpload{}, false
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Failed to read file"))
		return domain.FileUpload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.Error(apperror.BadRequest("Failed to read file"))
		return domain.FileUpload{}, false
	}
	return domain.FileUpload{Filename: header.Filename, Data: data}, true
}

// safeRedirect only accepts local paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/dashboard"
	}
	return target
}
