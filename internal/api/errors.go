package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hay-kot/criterio"

	"github.com/stratako/stratako/internal/domain"
)

// respondError writes err with the status matching its kind. Field errors
// are rendered as {"error": {"field": ["message", ...]}}.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		notAuthorized(c)
	case errors.Is(err, domain.ErrValidation):
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldMessages(fieldErrs)})
			return
		}
		msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func fieldMessages(errs criterio.FieldErrors) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = append(out[fe.Field], fe.Err.Error())
	}
	return out
}

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
