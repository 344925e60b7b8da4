// Package mcp exposes the forecast lookup as MCP tools and resources.
package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miyamo2/qilin"

	"github.com/i474232898/bmkg-weather/internal/weather"
)

// ProvincesURI is the resource listing supported provinces.
const ProvincesURI = "bmkg://provinces"

// ToolGetWeatherRequest contains input parameters for the get_weather tool.
type ToolGetWeatherRequest struct {
	Provinsi string `json:"provinsi" jsonschema:"description=Province name as used by BMKG (e.g. DKI Jakarta)"`
}

// Handler serves MCP calls from a weather.Service.
type Handler struct {
	service *weather.Service
}

func NewHandler(service *weather.Service) *Handler {
	return &Handler{service: service}
}

// Register adds the tools and resources to q.
func (h *Handler) Register(q *qilin.Qilin) {
	q.Tool("get_weather",
		(*ToolGetWeatherRequest)(nil),
		h.GetWeather,
		qilin.ToolWithDescription("Get the BMKG weather forecast of every area in an Indonesian province"))

	q.Resource(
		"BMKG Provinces",
		ProvincesURI,
		h.Provinces,
		qilin.ResourceWithDescription("Provinces with a BMKG DigitalForecast feed"),
		qilin.ResourceWithMimeType("application/json"))
}

func (h *Handler) GetWeather(c qilin.ToolContext) error {
	var req ToolGetWeatherRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	province := strings.TrimSpace(req.Provinsi)
	if province == "" {
		return errors.New("provinsi is required")
	}

	records, err := h.service.FetchWeather(c.Context(), province)
	if err != nil {
		return describe(err)
	}
	return c.JSON(weather.Response{WeatherData: records})
}

func (h *Handler) Provinces(c qilin.ResourceContext) error {
	return c.JSON(map[string][]string{"provinces": weather.Provinces()})
}

// describe rewrites orchestrator errors into messages an MCP client can act on.
func describe(err error) error {
	var ue *weather.UpstreamError
	switch {
	case errors.Is(err, weather.ErrUnsupportedProvince):
		return fmt.Errorf("province not supported; read %s for valid names: %w", ProvincesURI, err)
	case errors.As(err, &ue):
		return fmt.Errorf("BMKG answered with status %d: %w", ue.StatusCode, err)
	case weather.IsFeedError(err):
		return fmt.Errorf("BMKG feed could not be parsed: %w", err)
	default:
		return err
	}
}
