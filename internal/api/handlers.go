package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/undead2146/genhub-core/internal/activation"
	"github.com/undead2146/genhub-core/internal/domain"
	"github.com/undead2146/genhub-core/internal/service"
)

// Handlers contains all HTTP handlers for the content identity API
type Handlers struct {
	identity      *service.IdentityService
	catalog       domain.ManifestProvider
	cache         domain.ValidationCache
	activation    *activation.Validator
	healthChecker domain.HealthChecker
}

// NewHandlers creates a new instance of API handlers
func NewHandlers(identity *service.IdentityService, catalog domain.ManifestProvider, cache domain.ValidationCache, activationValidator *activation.Validator, healthChecker domain.HealthChecker) *Handlers {
	return &Handlers{
		identity:      identity,
		catalog:       catalog,
		cache:         cache,
		activation:    activationValidator,
		healthChecker: healthChecker,
	}
}

// ValidateRequest is the payload for the id validation endpoint
type ValidateRequest struct {
	ID string `json:"id" validate:"required"`
}

// GenerateRequest is the payload for the id generation endpoint. Kind
// selects which field group applies.
type GenerateRequest struct {
	Kind string `json:"kind" validate:"required,oneof=publisher-content game-installation release"`

	// publisher-content fields
	Publisher   string `json:"publisher,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	ContentName string `json:"content_name,omitempty"`
	UserVersion int    `json:"user_version,omitempty"`

	// game-installation fields
	InstallationType string `json:"installation_type,omitempty"`
	InstallPath      string `json:"install_path,omitempty"`
	Version          string `json:"version,omitempty"`
	GameType         string `json:"game_type,omitempty"`

	// release fields
	Owner      string `json:"owner,omitempty"`
	Repository string `json:"repository,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// ActivationRequest is the payload for the activation check endpoint
type ActivationRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse represents the standard success response format
type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ValidateHandler handles POST /v1/ids/validate requests
func (h *Handlers) ValidateHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		appErr := domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			map[string]string{"error": err.Error()},
		).WithContext(ctx, "validate_request_parsing")

		return h.sendError(c, appErr)
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return h.sendError(c, domain.NewAppError(
			domain.ErrValidationFailed,
			"Id is required",
			422,
			map[string]string{"field": "id", "reason": "required"},
		))
	}

	outcome := h.identity.ValidateOutcome(req.ID)
	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"valid":     outcome.Valid,
			"id":        outcome.ID.String(),
			"reason":    outcome.Reason,
			"cache_hit": outcome.CacheHit,
		},
	})
}

// GenerateHandler handles POST /v1/ids/generate requests
func (h *Handlers) GenerateHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		appErr := domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			map[string]string{"error": err.Error()},
		).WithContext(ctx, "generate_request_parsing")

		return h.sendError(c, appErr)
	}

	var result service.Result
	switch strings.TrimSpace(req.Kind) {
	case "publisher-content":
		result = h.identity.GeneratePublisherContent(
			req.Publisher,
			domain.ContentType(strings.TrimSpace(req.ContentType)),
			req.ContentName,
			req.UserVersion,
		)
	case "game-installation":
		installation := &domain.GameInstallation{
			InstallationType: domain.InstallationType(strings.TrimSpace(req.InstallationType)),
			InstallPath:      req.InstallPath,
			Version:          req.Version,
		}
		result = h.identity.GenerateGameInstallation(installation, domain.GameType(strings.TrimSpace(req.GameType)))
	case "release":
		result = h.identity.GenerateRelease(
			req.Owner,
			req.Repository,
			req.Tag,
			domain.ContentType(strings.TrimSpace(req.ContentType)),
		)
	default:
		return h.sendError(c, domain.NewAppError(
			domain.ErrValidationFailed,
			"Kind must be one of: publisher-content, game-installation, release",
			422,
			map[string]string{"field": "kind", "value": req.Kind},
		))
	}

	if !result.Success {
		return h.sendError(c, domain.NewAppError(
			result.Code,
			result.Message,
			422,
			map[string]string{"kind": req.Kind},
		))
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"id":   result.Value,
			"kind": req.Kind,
		},
	})
}

// ActivationHandler handles POST /v1/activation/check requests
func (h *Handlers) ActivationHandler(c *fiber.Ctx) error {
	ctx := c.Context()
	requestID := ""
	if rid := c.Locals("requestid"); rid != nil {
		requestID = rid.(string)
	}

	var req ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		appErr := domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			map[string]string{"error": err.Error()},
		).WithContext(ctx, "activation_request_parsing")

		return h.sendError(c, appErr)
	}

	if len(req.IDs) == 0 {
		return h.sendError(c, domain.NewAppError(
			domain.ErrValidationFailed,
			"At least one id is required",
			422,
			map[string]string{"field": "ids", "reason": "required"},
		))
	}

	proposed := make([]*domain.ContentManifest, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := domain.ParseManifestID(raw)
		if err != nil {
			appErr := err.(*domain.AppError).WithContext(ctx, "activation_id_validation")
			return h.sendError(c, appErr)
		}
		manifest, err := h.catalog.GetManifest(ctx, id)
		if err != nil {
			return h.sendError(c, domain.NewAppError(
				domain.ErrNotFound,
				"Manifest not found",
				404,
				map[string]string{"id": id.String()},
			))
		}
		proposed = append(proposed, manifest)
	}

	available, err := h.catalog.AvailableSet(ctx)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to read catalog")
		return h.sendError(c, domain.NewAppError(
			domain.ErrInternal,
			"Failed to read catalog",
			500,
			nil,
		))
	}

	result, err := h.activation.Validate(ctx, proposed, available)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Activation check failed")
		appErr, ok := err.(*domain.AppError)
		if !ok {
			appErr = domain.NewAppError(domain.ErrInternal, "Activation check failed", 500, nil)
		}
		return h.sendError(c, appErr)
	}

	missing := make(map[string][]string, len(result.MissingDependencies))
	for id, deps := range result.MissingDependencies {
		ids := make([]string, len(deps))
		for i, dep := range deps {
			ids[i] = dep.String()
		}
		missing[id.String()] = ids
	}

	data := map[string]any{
		"verdict":  string(result.Verdict),
		"message":  result.Message,
		"warnings": result.Warnings,
	}
	if len(missing) > 0 {
		data["missing_dependencies"] = missing
	}
	if !result.DroppedID.IsZero() {
		data["dropped_id"] = result.DroppedID.String()
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   data,
	})
}

// ListManifestsHandler handles GET /v1/manifests requests
func (h *Handlers) ListManifestsHandler(c *fiber.Ctx) error {
	ctx := c.Context()
	requestID := ""
	if rid := c.Locals("requestid"); rid != nil {
		requestID = rid.(string)
	}

	manifests, err := h.catalog.GetAllManifests(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("Failed to retrieve manifests")

		appErr := domain.NewAppError(
			domain.ErrInternal,
			"Failed to retrieve manifests",
			500,
			nil,
		).WithContext(ctx, "list_manifests_retrieval")

		return h.sendError(c, appErr)
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"manifests": manifests,
			"count":     len(manifests),
		},
	})
}

// GetManifestHandler handles GET /v1/manifests/:id requests
func (h *Handlers) GetManifestHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	raw := strings.TrimSpace(c.Params("id"))
	id, err := domain.ParseManifestID(raw)
	if err != nil {
		appErr := err.(*domain.AppError).WithContext(ctx, "get_manifest_id_validation")
		return h.sendError(c, appErr)
	}

	manifest, err := h.catalog.GetManifest(ctx, id)
	if err != nil {
		return h.sendError(c, domain.NewAppError(
			domain.ErrNotFound,
			"Manifest not found",
			404,
			map[string]string{"id": id.String()},
		))
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"manifest": manifest,
		},
	})
}

// HealthHandler handles GET /health requests
func (h *Handlers) HealthHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	health := h.healthChecker.CheckHealth(ctx)

	status := 200
	if health.Status != domain.HealthStatusHealthy {
		status = 503
	}

	return c.Status(status).JSON(map[string]any{
		"status":     health.Status,
		"timestamp":  health.Timestamp.Format(time.RFC3339),
		"components": health.Components,
		"uptime":     health.Uptime.String(),
	})
}

// MetricsHandler handles GET /metrics requests
func (h *Handlers) MetricsHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	cacheStats := h.cache.Stats()
	catalogStats := h.catalog.GetStats(ctx)

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"cache": map[string]any{
				"hits":      cacheStats.Hits,
				"misses":    cacheStats.Misses,
				"size":      cacheStats.Size,
				"max_size":  cacheStats.MaxSize,
				"hit_ratio": cacheStats.HitRatio,
			},
			"catalog": catalogStats,
			"uptime": map[string]any{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
}

// sendError sends a standardized error response
func (h *Handlers) sendError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
