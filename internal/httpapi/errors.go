package httpapi

import (
	"context"
	"errors"
	"net/http"

	"dryfruto/storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var partial *domain.PartialSeedFailure

	switch {
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      err.Error(),
			"written":    collectionNames(partial.Written),
			"skipped":    collectionNames(partial.Skipped),
			"failed":     partial.Failed.String(),
			"failedDocs": partial.FailedDocs,
			"rolledBack": partial.RolledBack,
		})
	case errors.Is(err, domain.ErrSeedInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func collectionNames(colls []domain.Collection) []string {
	names := make([]string, 0, len(colls))
	for _, c := range colls {
		names = append(names, c.String())
	}
	return names
}
