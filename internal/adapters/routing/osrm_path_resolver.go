package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
	"github.com/W-Nunes/MobiVan/internal/platform/tracing"
)

// OSRMPathResolver implements PathResolver using the OSRM route service.
//
// One call is one GET to /route/v1/{profile}/{lon,lat;...} asking for the
// full GeoJSON geometry and step maneuvers. No retries are made.
// The resolver is safe for concurrent use.
type OSRMPathResolver struct {
	client  *http.Client
	baseURL string
	profile string
	logger  *slog.Logger
}

func NewOSRMPathResolver(baseURL, profile string, timeout time.Duration, logger *slog.Logger) (*OSRMPathResolver, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if profile == "" {
		profile = "driving"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OSRMPathResolver{
		client:  newHTTPClient(timeout),
		baseURL: baseURL,
		profile: profile,
		logger:  logger,
	}, nil
}

type osrmRouteResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance *float64        `json:"distance"`
	Duration *float64        `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []osrmLeg       `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string        `json:"name"`
	Distance float64       `json:"distance"`
	Maneuver *osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type     *string   `json:"type"`
	Modifier string    `json:"modifier"`
	Location []float64 `json:"location"`
}

// ResolvePath asks OSRM for the road route visiting points in order.
func (o *OSRMPathResolver) ResolvePath(ctx context.Context, points []domain.Location) (_ *domain.RouteInfo, err error) {
	defer obs.Time(ctx, o.logger, "osrm.ResolvePath")(&err)

	ctx, span := tracing.StartSpan(ctx, "osrm.ResolvePath")
	span.SetAttributes(attribute.Int("points", len(points)))
	defer func() { tracing.End(span, err) }()

	if len(points) < 2 {
		return nil, fmt.Errorf("resolve OSRM path: need at least 2 points, got %d", len(points))
	}

	endpoint := o.routeURL(points)
	req, err := o.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("resolve OSRM path: %w", err)
	}

	body, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve OSRM path: %w", err)
	}

	info, err := parseOSRMRoute(body)
	if err != nil {
		return nil, fmt.Errorf("resolve OSRM path: %w", err)
	}

	return info, nil
}

// routeURL encodes points as "lon,lat;lon,lat" in the order given.
func (o *OSRMPathResolver) routeURL(points []domain.Location) string {
	coords := make([]string, len(points))
	for i, p := range points {
		c := p.Coords()
		coords[i] = strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," +
			strconv.FormatFloat(c.Lat, 'f', -1, 64)
	}

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("steps", "true")

	return fmt.Sprintf("%s/route/v1/%s/%s?%s", o.baseURL, o.profile, strings.Join(coords, ";"), q.Encode())
}

// parseOSRMRoute normalizes the first route candidate of an OSRM reply.
// Steps of every leg are flattened in leg order, then step order.
func parseOSRMRoute(body []byte) (*domain.RouteInfo, error) {
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}

	var decoded osrmRouteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		return nil, fmt.Errorf("OSRM error %s: %s", decoded.Code, decoded.Message)
	}

	if len(decoded.Routes) == 0 {
		return nil, ErrNoRoute
	}

	route := decoded.Routes[0]
	if route.Distance == nil || route.Duration == nil {
		return nil, errors.New("route is missing distance or duration")
	}

	maneuvers := make([]domain.Maneuver, 0)
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			maneuvers = append(maneuvers, toManeuver(step))
		}
	}

	geometry := route.Geometry
	if string(geometry) == "null" {
		geometry = nil
	}

	return &domain.RouteInfo{
		DistanceMeters:  *route.Distance,
		DurationSeconds: *route.Duration,
		Geometry:        geometry,
		Maneuvers:       maneuvers,
	}, nil
}

func toManeuver(step osrmStep) domain.Maneuver {
	m := domain.Maneuver{
		Instruction:    "move",
		StreetName:     step.Name,
		DistanceMeters: step.Distance,
	}

	if step.Maneuver == nil {
		return m
	}
	if step.Maneuver.Type != nil {
		m.Instruction = *step.Maneuver.Type
	}
	m.Modifier = step.Maneuver.Modifier
	if len(step.Maneuver.Location) == 2 {
		m.Location = domain.Coordinates{Lon: step.Maneuver.Location[0], Lat: step.Maneuver.Location[1]}
	}

	return m
}
