package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ec2lister/internal/config"
	"ec2lister/internal/listing"
	"ec2lister/internal/models"
	awsprovider "ec2lister/internal/providers/aws"
	"ec2lister/pkg/logging"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Generic client-facing messages. Raw provider errors are logged server-side
// and never echoed to the caller.
const (
	msgUpstreamFailure = "cloud provider request failed"
	msgInternalError   = "internal server error"
)

// Server holds the handler dependencies.
type Server struct {
	instances       awsprovider.InstanceServiceAPI
	logger          logging.Logger
	defaultPageSize int
	providerTimeout time.Duration
}

// NewServer creates a Server with the given instance service and settings.
func NewServer(instances awsprovider.InstanceServiceAPI, logger logging.Logger, cfg *config.Config) *Server {
	return &Server{
		instances:       instances,
		logger:          logger,
		defaultPageSize: cfg.DefaultPageSize,
		providerTimeout: cfg.ProviderTimeout(),
	}
}

// RegisterRoutes attaches the API routes to the fiber app.
func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Use(s.requestLogger())
	app.Get("/health", s.HealthHandler)
	app.Get("/get_ec2_instances", s.ListInstancesHandler)
}

// requestLogger logs every request with its duration.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.logger.Info("[%s] %s from %s took %v", c.Method(), c.Path(), c.IP(), time.Since(start))
		return err
	}
}

// HealthHandler handles the health check request
func (s *Server) HealthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "ec2lister",
	})
}

// ListInstancesHandler handles GET /get_ec2_instances. Query parameters are
// validated before any provider call is made; a request either fully
// succeeds with a complete page or fails with one error object.
func (s *Server) ListInstancesHandler(c *fiber.Ctx) error {
	region := c.Query("region")
	if region == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: region",
		})
	}

	sortBy := c.Query("sort_by")
	if sortBy != "" && !models.IsValidAttribute(sortBy) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("Invalid sort by attribute. Valid attributes to sort by are: %s",
				strings.Join(models.AttributeKeys(), ", ")),
		})
	}

	page, err := parsePositiveInt(c.Query("page"), 1)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid page number. Page must be a positive number",
		})
	}

	pageSize, err := parsePositiveInt(c.Query("page_size"), s.defaultPageSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid page size. Page size must be a positive number",
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.providerTimeout)
	defer cancel()

	if err := s.instances.ValidateRegion(ctx, region); err != nil {
		return s.providerError(c, err)
	}

	records, err := s.instances.ListInstances(ctx, region)
	if err != nil {
		return s.providerError(c, err)
	}

	sorted, err := listing.SortRecords(records, sortBy)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	result, err := listing.Paginate(sorted, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(result)
}

// providerError maps a classified provider error onto the HTTP taxonomy:
// client-caused failures are 400, upstream failures are 502, everything else
// is 500. The raw error only goes to the server log.
func (s *Server) providerError(c *fiber.Ctx, err error) error {
	switch {
	case awsprovider.IsErrorCategory(err, awsprovider.ErrInvalidRegion):
		s.logger.Warn("Rejected request for unknown region: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid region name"})

	case awsprovider.IsErrorCategory(err, awsprovider.ErrInvalidInput):
		s.logger.Warn("Provider rejected request input: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request parameters"})

	case awsprovider.IsErrorCategory(err, awsprovider.ErrPermissionDenied),
		awsprovider.IsErrorCategory(err, awsprovider.ErrThrottling),
		awsprovider.IsErrorCategory(err, awsprovider.ErrNetworkError),
		awsprovider.IsErrorCategory(err, awsprovider.ErrConfigurationError):
		s.logger.Error("Cloud provider failure: %s", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgUpstreamFailure})

	default:
		s.logger.Error("Unexpected provider error: %s", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternalError})
	}
}

// parsePositiveInt parses an optional positive integer query value. An empty
// value yields the default; non-numeric or non-positive values are an error,
// never silently clamped.
func parsePositiveInt(value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("value must be positive, got %d", n)
	}
	return n, nil
}
