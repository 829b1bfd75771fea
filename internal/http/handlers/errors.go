package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/editor"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/steps"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/apierr"
	"github.com/yungbote/aet-studio-backend/internal/platform/ctxutil"
	"github.com/yungbote/aet-studio-backend/internal/services"
)

// toAPIError maps domain failures onto HTTP statuses. Unknown errors stay 500.
func toAPIError(err error) error {
	var gerr *steps.GenerationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrStudentNotFound):
		return apierr.NotFound("student_not_found", err)
	case errors.Is(err, domain.ErrResourceNotFound):
		return apierr.NotFound("resource_not_found", err)
	case errors.Is(err, ai.ErrUnavailable):
		return apierr.Unavailable("ai_unavailable", err)
	case errors.Is(err, editor.ErrRegenerationInFlight):
		return apierr.Conflict("regeneration_in_flight", err)
	case errors.Is(err, editor.ErrNoText):
		return apierr.BadRequest("no_text", err)
	case errors.Is(err, content.ErrInvalidPosition),
		errors.Is(err, content.ErrInvalidEdit),
		errors.Is(err, resources.ErrInvalidRequest),
		errors.Is(err, services.ErrInvalidStudent):
		return apierr.BadRequest("invalid_request", err)
	case errors.As(err, &gerr) && !errors.Is(err, context.Canceled):
		// a model call that ran past its own timeout is a failed generation
		return apierr.Internal("generation_failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, context.Canceled):
		return apierr.New(499, "canceled", err)
	}
	return apierr.Internal("internal", err)
}

func teacherID(c *gin.Context) string {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.TeacherID
	}
	return ""
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, apierr.BadRequest("invalid_id", errors.New("id must be a positive integer"))
	}
	return uint(n), nil
}
