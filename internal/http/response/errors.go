package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/platform/apierr"
)

// RespondAPIError writes an *apierr.Error with its status and code. Anything else is a 500.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		code := ae.Code
		if code == "" {
			code = http.StatusText(ae.Status)
		}
		RespondError(c, ae.Status, code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal", err)
}
