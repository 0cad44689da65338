package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentilens/internal/analysis"
	"github.com/spacesedan/sentilens/internal/chart"
	"github.com/spacesedan/sentilens/internal/extract"
	"github.com/spacesedan/sentilens/internal/models"
)

const NO_INPUT_MESSAGE = "No files or text provided"

//go:embed web/index.html
var indexHTML []byte

var errBadTranslateFlag = errors.New("translate must be true or false")

// limitedBody records whether the size limit was hit while the form was read.
type limitedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		b.exceeded = true
	}
	return n, err
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"translator":         s.analyzer.TranslatorName(),
		"translator_healthy": s.translatorHealthy.Load(),
	})
}

func (s *Server) analyze(c *gin.Context) {
	body := &limitedBody{ReadCloser: http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)}
	c.Request.Body = body

	req, closeFiles, err := s.readAnalyzeForm(c.Request)
	defer closeFiles()
	if err != nil {
		status := http.StatusBadRequest
		if body.exceeded {
			status = http.StatusRequestEntityTooLarge
		}
		slog.Warn("[Server] Rejected analyze form",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		c.JSON(status, models.ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		status, message := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("[Server] Analyze failed", slog.String("error", err.Error()))
		} else {
			slog.Warn("[Server] Analyze rejected",
				slog.Int("status", status),
				slog.String("error", err.Error()))
		}
		c.JSON(status, models.ErrorResponse{Error: message})
		return
	}

	s.metrics.observeCounts(resp.SentimentCounts)
	c.JSON(http.StatusOK, resp)
}

// readAnalyzeForm accepts multipart bodies and plain url-encoded forms. The
// returned func closes any opened file parts and temporary files.
func (s *Server) readAnalyzeForm(r *http.Request) (analysis.Request, func(), error) {
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	req := analysis.Request{Translate: s.cfg.Translator.DefaultOn}

	if err := r.ParseMultipartForm(MULTIPART_MEMORY); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return req, cleanup, fmt.Errorf("invalid form: %w", err)
	}

	req.Text = r.PostFormValue("text")

	if raw := r.PostFormValue("translate"); raw != "" {
		translate, err := strconv.ParseBool(raw)
		if err != nil {
			return req, cleanup, errBadTranslateFlag
		}
		req.Translate = translate
	}

	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return req, cleanup, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
			}
			opened = append(opened, f)
			req.Files = append(req.Files, analysis.Upload{Name: fh.Filename, Body: f})
		}
	}

	return req, cleanup, nil
}

func errorStatus(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, analysis.ErrNoInput):
		return http.StatusBadRequest, NO_INPUT_MESSAGE
	case errors.Is(err, extract.ErrInvalidUTF8):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, extract.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, chart.ErrRender):
		return http.StatusInternalServerError, chart.ErrRender.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "request cancelled before analysis finished"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
