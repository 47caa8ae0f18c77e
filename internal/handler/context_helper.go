package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/middleware"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
	"github.com/noah-isme/classdy-api/pkg/response"
)

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// cacheMeta records the cache outcome and processing time and returns the
// envelope meta.
func cacheMeta(c *gin.Context, hit bool, start time.Time) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	middleware.SetProcessingTime(c, start)
	return middleware.ExtractMeta(c)
}

func intParam(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return value, nil
}

func featureDisabled(c *gin.Context, feature string) {
	response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, feature+" is disabled"))
}
