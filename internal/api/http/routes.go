package httpapi

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/invopop/jsonschema"

	"github.com/i474232898/bmkg-weather/internal/store"
	"github.com/i474232898/bmkg-weather/internal/weather"
)

const (
	msgProvinceRequired    = "query parameter 'provinsi' is required"
	msgProvinceUnsupported = "Provinsi tidak ditemukan atau tidak didukung"
	msgUpstreamFailed      = "Failed to fetch data from BMKG"
	msgUpstreamUnreachable = "Could not reach BMKG"
	msgUpstreamPaused      = "BMKG requests are paused after repeated failures"
	msgFeedInvalid         = "BMKG feed could not be parsed"
	msgNoProbeStatus       = "no probe status for requested province"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, statuses weather.StatusStore) {
	responseSchema := jsonschema.Reflect(&weather.Response{})

	app.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return err
		}

		records, err := service.FetchWeather(c.UserContext(), q.Provinsi)
		if err != nil {
			return fetchError(err)
		}

		return c.JSON(weather.Response{WeatherData: records})
	})

	app.Get("/weather/areas", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return err
		}

		records, err := service.FetchWeather(c.UserContext(), q.Provinsi)
		if err != nil {
			return fetchError(err)
		}

		return c.JSON(fiber.Map{
			"areas": weather.GroupByArea(records),
		})
	})

	app.Get("/weather/schema", func(c *fiber.Ctx) error {
		return c.JSON(responseSchema)
	})

	app.Get("/provinces", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"provinces": weather.Provinces(),
		})
	})

	app.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"probes": statuses.Latest(),
		})
	})

	app.Get("/status/:provinsi", func(c *fiber.Ctx) error {
		province, err := url.PathUnescape(c.Params("provinsi"))
		if err != nil || strings.TrimSpace(province) == "" {
			return fiber.NewError(fiber.StatusBadRequest, msgProvinceRequired)
		}

		latest, err := statuses.GetLatest(province)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, msgNoProbeStatus)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read probe status")
		}

		history, err := statuses.History(province)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read probe status")
		}

		return c.JSON(fiber.Map{
			"latest":  latest,
			"history": history,
		})
	})
}

// NewErrorHandler returns the centralized error response used by the app.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "status", code, "error", err)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}

// weatherQuery holds the query parameters of the weather endpoints.
type weatherQuery struct {
	Provinsi string `validate:"required"`
}

func parseWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	q := weatherQuery{
		Provinsi: strings.TrimSpace(c.Query("provinsi")),
	}

	if err := validate.Struct(q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, msgProvinceRequired)
	}

	return q, nil
}

// fetchError maps orchestrator failures onto HTTP statuses.
func fetchError(err error) error {
	var (
		ue *weather.UpstreamError
		te *weather.TransportError
	)

	switch {
	case errors.Is(err, weather.ErrUnsupportedProvince):
		return fiber.NewError(fiber.StatusBadRequest, msgProvinceUnsupported)
	case errors.As(err, &ue):
		code := ue.StatusCode
		// A non-200 success or redirect from BMKG still carries no feed.
		if code < fiber.StatusBadRequest {
			code = fiber.StatusBadGateway
		}
		return fiber.NewError(code, msgUpstreamFailed)
	case errors.Is(err, weather.ErrCircuitOpen):
		return fiber.NewError(fiber.StatusServiceUnavailable, msgUpstreamPaused)
	case errors.As(err, &te):
		return fiber.NewError(fiber.StatusBadGateway, msgUpstreamUnreachable)
	case weather.IsFeedError(err):
		return fiber.NewError(fiber.StatusInternalServerError, msgFeedInvalid)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}
