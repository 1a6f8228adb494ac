package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/transits"
	"github.com/cosmichub/cosmichub/internal/birthdata"
	"github.com/cosmichub/cosmichub/internal/numerology"
)

// BirthInput carries the free-text birth data fields shared by the
// calculation tools.
type BirthInput struct {
	Name      string `json:"name,omitempty" jsonschema:"person name for numerology"`
	BirthDate string `json:"birth_date" jsonschema:"birth date as YYYY-MM-DD"`
	BirthTime string `json:"birth_time,omitempty" jsonschema:"birth time as HH:MM, defaults to noon"`
	City      string `json:"city,omitempty" jsonschema:"birth city name"`
	Timezone  string `json:"timezone,omitempty" jsonschema:"IANA timezone of the birth place"`
	Latitude  string `json:"latitude,omitempty" jsonschema:"birth latitude in decimal degrees"`
	Longitude string `json:"longitude,omitempty" jsonschema:"birth longitude in decimal degrees"`
}

// PlacementResult is one body placement in a calculated chart.
type PlacementResult struct {
	Body       string  `json:"body" jsonschema:"celestial body name"`
	Sign       string  `json:"sign" jsonschema:"zodiac sign"`
	Degree     float64 `json:"degree" jsonschema:"degrees into the sign"`
	House      int     `json:"house,omitempty" jsonschema:"house number when birth time is known"`
	Retrograde bool    `json:"retrograde,omitempty" jsonschema:"whether the body is retrograde"`
}

// ChartResult is the MCP tool output for a natal chart calculation.
type ChartResult struct {
	Placements []PlacementResult `json:"placements" jsonschema:"body placements"`
	Ascendant  float64           `json:"ascendant,omitempty" jsonschema:"ascendant longitude when birth time and place are known"`
	Midheaven  float64           `json:"midheaven,omitempty" jsonschema:"midheaven longitude when birth time and place are known"`
}

// NumerologyResult is the MCP tool output for a numerology reading.
type NumerologyResult struct {
	LifePath    int `json:"life_path" jsonschema:"life path number"`
	Expression  int `json:"expression" jsonschema:"expression number"`
	SoulUrge    int `json:"soul_urge" jsonschema:"soul urge number"`
	Personality int `json:"personality" jsonschema:"personality number"`
	Birthday    int `json:"birthday" jsonschema:"birthday number"`
}

// TransitHitResult is one transiting aspect to a natal placement.
type TransitHitResult struct {
	Transiting string  `json:"transiting" jsonschema:"transiting body"`
	Natal      string  `json:"natal" jsonschema:"natal body"`
	Type       string  `json:"type" jsonschema:"aspect type"`
	Orb        float64 `json:"orb" jsonschema:"orb in degrees"`
}

// TransitsInput is the MCP tool input for a transit snapshot.
type TransitsInput struct {
	Birth BirthInput `json:"birth" jsonschema:"natal birth data"`
	At    string     `json:"at,omitempty" jsonschema:"RFC 3339 instant, defaults to now"`
}

// TransitsResult is the MCP tool output for a transit snapshot.
type TransitsResult struct {
	At   string             `json:"at" jsonschema:"instant of the snapshot"`
	Sky  []PlacementResult  `json:"sky" jsonschema:"current sky positions"`
	Hits []TransitHitResult `json:"hits" jsonschema:"transiting aspects to the natal chart"`
}

// CalculateChartTool defines the MCP tool schema for natal charts.
func CalculateChartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calculate_chart",
		Description: "Calculates a natal chart from birth data",
	}
}

// CalculateChartHandler computes a natal chart.
func CalculateChartHandler() mcp.ToolHandlerFor[BirthInput, ChartResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input BirthInput) (*mcp.CallToolResult, ChartResult, error) {
		natal, err := calculateNatal(input)
		if err != nil {
			return nil, ChartResult{}, err
		}
		return nil, chartResultOf(natal), nil
	}
}

// CalculateNumerologyTool defines the MCP tool schema for numerology.
func CalculateNumerologyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calculate_numerology",
		Description: "Calculates life path, expression, and soul urge numbers",
	}
}

// CalculateNumerologyHandler computes a numerology reading.
func CalculateNumerologyHandler() mcp.ToolHandlerFor[BirthInput, NumerologyResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input BirthInput) (*mcp.CallToolResult, NumerologyResult, error) {
		if input.Name == "" {
			return nil, NumerologyResult{}, fmt.Errorf("name is required for numerology")
		}
		birth, err := parseBirth(input)
		if err != nil {
			return nil, NumerologyResult{}, err
		}
		reading, err := numerology.Calculate(input.Name, birth)
		if err != nil {
			return nil, NumerologyResult{}, fmt.Errorf("calculate numerology: %w", err)
		}
		return nil, NumerologyResult{
			LifePath:    reading.LifePath,
			Expression:  reading.Expression,
			SoulUrge:    reading.SoulUrge,
			Personality: reading.Personality,
			Birthday:    reading.Birthday,
		}, nil
	}
}

// CurrentTransitsTool defines the MCP tool schema for transit snapshots.
func CurrentTransitsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "current_transits",
		Description: "Reports the current sky and its aspects to a natal chart",
	}
}

// CurrentTransitsHandler computes a transit snapshot against a natal chart.
func CurrentTransitsHandler() mcp.ToolHandlerFor[TransitsInput, TransitsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TransitsInput) (*mcp.CallToolResult, TransitsResult, error) {
		natal, err := calculateNatal(input.Birth)
		if err != nil {
			return nil, TransitsResult{}, err
		}
		at := time.Now().UTC()
		if input.At != "" {
			parsed, err := time.Parse(time.RFC3339, input.At)
			if err != nil {
				return nil, TransitsResult{}, fmt.Errorf("parse at: %w", err)
			}
			at = parsed.UTC()
		}
		report, err := transits.Calculate(natal, at)
		if err != nil {
			return nil, TransitsResult{}, fmt.Errorf("calculate transits: %w", err)
		}
		result := TransitsResult{At: report.At.Format(time.RFC3339)}
		for _, pos := range report.Sky {
			result.Sky = append(result.Sky, PlacementResult{
				Body:       string(pos.Body),
				Sign:       pos.Sign,
				Degree:     pos.Degree,
				Retrograde: pos.Retrograde,
			})
		}
		for _, hit := range report.Hit {
			result.Hits = append(result.Hits, TransitHitResult{
				Transiting: string(hit.Transiting),
				Natal:      string(hit.Natal),
				Type:       string(hit.Type),
				Orb:        hit.Orb,
			})
		}
		return nil, result, nil
	}
}

func parseBirth(input BirthInput) (birthdata.UnifiedBirthData, error) {
	latitude, err := parseCoordinate("latitude", input.Latitude)
	if err != nil {
		return birthdata.UnifiedBirthData{}, err
	}
	longitude, err := parseCoordinate("longitude", input.Longitude)
	if err != nil {
		return birthdata.UnifiedBirthData{}, err
	}
	birth, err := birthdata.ParseTextBirthData(birthdata.TextBirthData{
		BirthDate: input.BirthDate,
		BirthTime: input.BirthTime,
		City:      input.City,
		Timezone:  input.Timezone,
		Latitude:  latitude,
		Longitude: longitude,
	})
	if err != nil {
		return birthdata.UnifiedBirthData{}, fmt.Errorf("parse birth data: %w", err)
	}
	return birth, nil
}

// parseCoordinate turns an optional decimal-degree string into a pointer.
// An empty string means the coordinate was not provided.
func parseCoordinate(field string, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("parse birth data: %s must be decimal degrees", field)
	}
	return &value, nil
}

func calculateNatal(input BirthInput) (chart.Natal, error) {
	birth, err := parseBirth(input)
	if err != nil {
		return chart.Natal{}, err
	}
	natal, err := chart.Calculate(birth)
	if err != nil {
		return chart.Natal{}, fmt.Errorf("calculate chart: %w", err)
	}
	return natal, nil
}

func chartResultOf(natal chart.Natal) ChartResult {
	result := ChartResult{}
	for _, p := range natal.Placements {
		result.Placements = append(result.Placements, PlacementResult{
			Body:       string(p.Body),
			Sign:       p.Sign,
			Degree:     p.Degree,
			House:      p.House,
			Retrograde: p.Retrograde,
		})
	}
	if natal.Angles != nil {
		result.Ascendant = natal.Angles.Ascendant
		result.Midheaven = natal.Angles.Midheaven
	}
	return result
}
