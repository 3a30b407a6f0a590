package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type convertRequest struct {
	HTML string `json:"html" form:"html"`
}

type convertResponse struct {
	Markdown string `json:"markdown"`
}

// convert accepts a JSON or form body with an "html" field.
func (s *Server) convert(c *gin.Context) {
	if s.conf.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.conf.MaxBodyBytes)
	}

	var req convertRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			conversionsTotal.WithLabelValues("too_large").Inc()
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		s.logger.Debug("bad convert request", "id", c.GetString(requestIDHeader), "error", err)
	}
	if req.HTML == "" {
		conversionsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "No HTML provided"})
		return
	}

	inputBytes.Observe(float64(len(req.HTML)))
	s.logger.Debug("received HTML", "id", c.GetString(requestIDHeader), "bytes", len(req.HTML))

	start := time.Now()
	markdown, err := s.normalizer.Normalize(req.HTML)
	conversionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		conversionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("conversion error", "id", c.GetString(requestIDHeader), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Conversion failed"})
		return
	}

	conversionsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, convertResponse{Markdown: markdown})
}
