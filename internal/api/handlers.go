package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/middleware"
	"github.com/clinvar-diff-reconciler/internal/report"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"results":   s.results != nil,
	})
}

// handleReconcile reconciles the diff in the request body for ?assay=.
func (s *Server) handleReconcile(c *gin.Context) {
	assay := c.Query("assay")
	if assay == "" {
		s.abort(c, http.StatusBadRequest, "query parameter 'assay' is required", nil)
		return
	}

	res, err := s.reconciler.Reconcile(c.Request.Context(), assay, c.Request.Body)
	if err != nil {
		var fe *domain.FormatError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &fe):
			s.abort(c, http.StatusUnprocessableEntity, err.Error(), gin.H{"code": fe.Code, "line": fe.Line})
		case errors.As(err, &tooLarge):
			s.abort(c, http.StatusRequestEntityTooLarge, "diff exceeds request size limit", gin.H{"limit": tooLarge.Limit})
		case errors.Is(err, domain.ErrEmptyEvidence):
			s.abort(c, http.StatusUnprocessableEntity, err.Error(), nil)
		case res != nil:
			// tables were built but a sink refused them
			s.abort(c, http.StatusBadGateway, err.Error(), gin.H{"result": res})
		default:
			s.abort(c, http.StatusInternalServerError, err.Error(), nil)
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleLatestRun returns the last stored run of an assay, as JSON or, with
// ?table=<name>, as that table's CSV.
func (s *Server) handleLatestRun(c *gin.Context) {
	if s.results == nil {
		s.abort(c, http.StatusNotFound, "no result store configured", nil)
		return
	}

	res, err := s.results.Latest(c.Request.Context(), c.Param("assay"))
	if errors.Is(err, domain.ErrNotFound) {
		s.abort(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	table := c.Query("table")
	if table == "" {
		c.JSON(http.StatusOK, res)
		return
	}
	if domain.Columns(table) == nil {
		s.abort(c, http.StatusBadRequest, "unknown table "+table, nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+report.TableFileName(res.Assay, table))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteTable(c.Writer, res.Tables, table); err != nil {
		s.logger.WithError(err).Error("Writing CSV response failed")
	}
}

func (s *Server) abort(c *gin.Context, status int, msg string, extra gin.H) {
	body := gin.H{
		"error":          msg,
		"correlation_id": c.GetString(middleware.CorrelationIDKey),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}
