package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"googlemaps.github.io/maps"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
	"github.com/W-Nunes/MobiVan/internal/platform/tracing"
)

// GooglePathResolver implements PathResolver using the Google Directions API.
// The driver start is the origin, the last stop the destination and every
// stop in between a waypoint; waypoint order is never re-optimized.
type GooglePathResolver struct {
	client *maps.Client
	logger *slog.Logger
}

// NewGooglePathResolver builds a Directions client. Extra options (for
// example maps.WithBaseURL in tests) are applied after the API key and HTTP client.
func NewGooglePathResolver(apiKey string, httpClient *http.Client, logger *slog.Logger, opts ...maps.ClientOption) (*GooglePathResolver, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(httpClient))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}

	return &GooglePathResolver{client: client, logger: logger}, nil
}

type lineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// ResolvePath asks Google Directions for the driving route visiting points in order.
func (g *GooglePathResolver) ResolvePath(ctx context.Context, points []domain.Location) (_ *domain.RouteInfo, err error) {
	defer obs.Time(ctx, g.logger, "google.ResolvePath")(&err)

	ctx, span := tracing.StartSpan(ctx, "google.ResolvePath")
	span.SetAttributes(attribute.Int("points", len(points)))
	defer func() { tracing.End(span, err) }()

	if len(points) < 2 {
		return nil, fmt.Errorf("resolve google path: need at least 2 points, got %d", len(points))
	}

	waypoints := make([]string, 0, len(points)-2)
	for _, p := range points[1 : len(points)-1] {
		waypoints = append(waypoints, latLng(p))
	}

	req := &maps.DirectionsRequest{
		Origin:      latLng(points[0]),
		Destination: latLng(points[len(points)-1]),
		Waypoints:   waypoints,
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resolve google path: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("resolve google path: %w", ErrNoRoute)
	}

	route := routes[0]

	var meters, seconds float64
	maneuvers := make([]domain.Maneuver, 0)
	for _, leg := range route.Legs {
		if leg == nil {
			continue
		}
		meters += float64(leg.Distance.Meters)
		seconds += leg.Duration.Seconds()

		for _, step := range leg.Steps {
			if step == nil {
				continue
			}
			maneuvers = append(maneuvers, domain.Maneuver{
				Instruction:    "move",
				StreetName:     stripInstructionHTML(step.HTMLInstructions),
				Location:       domain.Coordinates{Lon: step.StartLocation.Lng, Lat: step.StartLocation.Lat},
				DistanceMeters: float64(step.Distance.Meters),
			})
		}
	}

	geometry, err := decodeOverview(route.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("resolve google path: %w", err)
	}

	return &domain.RouteInfo{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		Geometry:        geometry,
		Maneuvers:       maneuvers,
	}, nil
}

func latLng(l domain.Location) string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// decodeOverview turns an encoded polyline into a GeoJSON LineString so both
// providers hand the client the same geometry shape.
func decodeOverview(encoded string) (json.RawMessage, error) {
	if encoded == "" {
		return nil, nil
	}

	pts, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}

	ls := lineString{Type: "LineString", Coordinates: make([][]float64, 0, len(pts))}
	for _, p := range pts {
		ls.Coordinates = append(ls.Coordinates, []float64{p.Lng, p.Lat})
	}

	b, err := json.Marshal(ls)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return b, nil
}

// The Directions client exposes no maneuver type, so every Google step is
// reported as "move" and the readable instruction goes into the street name.
var instructionPolicy = bluemonday.StrictPolicy()

// stripInstructionHTML turns "Turn <b>left</b> onto <b>Rua X</b>" into
// "Turn left onto Rua X". Block elements become word breaks.
func stripInstructionHTML(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "<div", " <div")
	text := html.UnescapeString(instructionPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
