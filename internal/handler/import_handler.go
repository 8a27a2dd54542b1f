package handler

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/observability"
	"github.com/scstore/catalog/internal/ratelimit"
	"github.com/scstore/catalog/internal/service"
)

// importRateLimitScope keys the limiter so import starts are throttled
// independently of anything else using the same Redis.
const importRateLimitScope = "imports"

type ImportService interface {
	StartImport(ctx context.Context, req service.StartImportRequest) (domain.ProgressSnapshot, error)
	GetStatus(ctx context.Context, jobID string) (domain.ProgressSnapshot, error)
	ListJobs(ctx context.Context) ([]domain.ImportJob, error)
}

type ImportHandler struct {
	service ImportService
	limiter ratelimit.RateLimiter
}

func NewImportHandler(service ImportService, limiter ratelimit.RateLimiter) (*ImportHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("import service is required")
	}
	return &ImportHandler{service: service, limiter: limiter}, nil
}

func RegisterImportRoutes(router fiber.Router, service ImportService, limiter ratelimit.RateLimiter) error {
	h, err := NewImportHandler(service, limiter)
	if err != nil {
		return err
	}

	router.Post("/imports", h.StartImport)
	router.Get("/imports", h.ListImports)
	router.Get("/imports/:jobId", h.GetImport)

	return nil
}

type importJobResponse struct {
	JobID              string     `json:"jobId"`
	Status             string     `json:"status"`
	TotalRecords       int        `json:"totalRecords"`
	ProcessedRecords   int        `json:"processedRecords"`
	FailedRecords      int        `json:"failedRecords"`
	SuccessRecords     int        `json:"successRecords"`
	ProgressPercentage float64    `json:"progressPercentage"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	ErrorMessage       *string    `json:"errorMessage,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type listImportsResponse struct {
	Data []importJobResponse `json:"data"`
}

// StartImport accepts a multipart form with either a csvFile upload or a
// generateCount field and responds 202 with the initial job snapshot. The
// upload is buffered here because the job outlives the request and fiber
// reclaims the form once the handler returns.
func (h *ImportHandler) StartImport(c *fiber.Ctx) error {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Context(), importRateLimitScope)
		if err != nil {
			return fmt.Errorf("failed to check rate limit: %w", err)
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many import requests")
		}
	}

	req := service.StartImportRequest{}

	if fileHeader, err := c.FormFile("csvFile"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(file); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}

		req.CSV = &buf
		req.FileName = fileHeader.Filename
	}

	if raw := strings.TrimSpace(c.FormValue("generateCount")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "generateCount must be an integer")
		}
		req.GenerateCount = &count
	}

	ctx := requestContext(c)
	snapshot, err := h.service.StartImport(ctx, req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(snapshotResponse(snapshot))
}

func (h *ImportHandler) GetImport(c *fiber.Ctx) error {
	jobID := strings.TrimSpace(c.Params("jobId"))
	snapshot, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(snapshotResponse(snapshot))
}

func (h *ImportHandler) ListImports(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]importJobResponse, 0, len(jobs))
	for i := range jobs {
		data = append(data, jobResponse(&jobs[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listImportsResponse{Data: data})
}

func snapshotResponse(s domain.ProgressSnapshot) importJobResponse {
	return importJobResponse{
		JobID:              s.JobID,
		Status:             s.Status.String(),
		TotalRecords:       s.TotalRecords,
		ProcessedRecords:   s.ProcessedRecords,
		FailedRecords:      s.FailedRecords,
		SuccessRecords:     s.ProcessedRecords - s.FailedRecords,
		ProgressPercentage: s.ProgressPercentage,
		ErrorMessage:       s.ErrorMessage,
	}
}

func jobResponse(job *domain.ImportJob) importJobResponse {
	return importJobResponse{
		JobID:              job.ID,
		Status:             job.Status.String(),
		TotalRecords:       job.TotalRecords,
		ProcessedRecords:   job.ProcessedRecords,
		FailedRecords:      job.FailedRecords,
		SuccessRecords:     job.SuccessRecords(),
		ProgressPercentage: job.ProgressPercentage(),
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		ErrorMessage:       job.ErrorMessage,
		CreatedAt:          job.CreatedAt,
	}
}

// requestContext carries the request id into the context handed to
// detached work so job logs stay correlated with the originating request.
func requestContext(c *fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		ctx = observability.WithRequestID(ctx, requestID)
	}
	return ctx
}
