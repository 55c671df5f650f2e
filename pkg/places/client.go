package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RenCostamagna/comidita-backend/config"
)

const (
	textSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	detailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
	photoURL      = "https://maps.googleapis.com/maps/api/place/photo"

	requestTimeout = 8 * time.Second
)

// foodTypes tipos de Google aceptados; todo lo demás se descarta.
var foodTypes = map[string]bool{
	"restaurant":    true,
	"cafe":          true,
	"bakery":        true,
	"bar":           true,
	"food":          true,
	"meal_takeaway": true,
	"meal_delivery": true,
}

// Client cliente de Google Places acotado a la zona de cobertura.
type Client struct {
	cfg        config.GooglePlacesConfig
	httpClient *http.Client
}

// NewClient crea el cliente con la configuración de zona.
func NewClient(cfg config.GooglePlacesConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// TextSearch busca lugares gastronómicos por texto dentro del radio
// configurado. Filtra resultados que no sean de comida o queden fuera
// de la región.
func (c *Client) TextSearch(ctx context.Context, query string) ([]SearchResult, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("google places API key is not configured")
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("location", fmt.Sprintf("%f,%f", c.cfg.ReferenceLat, c.cfg.ReferenceLng))
	params.Add("radius", fmt.Sprintf("%d", c.cfg.RadiusMeters))
	params.Add("type", "restaurant")
	params.Add("key", c.cfg.APIKey)

	var raw textSearchResponse
	if err := c.get(ctx, textSearchURL, params, &raw); err != nil {
		return nil, err
	}

	if raw.Status != "OK" && raw.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google places returned status %s: %s", raw.Status, raw.ErrorMessage)
	}

	results := make([]SearchResult, 0, len(raw.Results))
	for _, r := range raw.Results {
		if !isFoodPlace(r.Types) {
			continue
		}
		if c.cfg.RegionFilter != "" && !strings.Contains(strings.ToLower(r.FormattedAddress), strings.ToLower(c.cfg.RegionFilter)) {
			continue
		}

		result := SearchResult{
			GooglePlaceID: r.PlaceID,
			Name:          r.Name,
			Address:       r.FormattedAddress,
			Latitude:      r.Geometry.Location.Lat,
			Longitude:     r.Geometry.Location.Lng,
			Rating:        r.Rating,
			TotalRatings:  r.UserRatingsTotal,
			Types:         r.Types,
		}
		if len(r.Photos) > 0 {
			result.PhotoURL = c.photoLink(r.Photos[0].PhotoReference)
		}
		results = append(results, result)
	}

	return results, nil
}

// GetDetails trae el detalle de un lugar por su place_id.
func (c *Client) GetDetails(ctx context.Context, googlePlaceID string) (*Details, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("google places API key is not configured")
	}

	params := url.Values{}
	params.Add("place_id", googlePlaceID)
	params.Add("fields", "place_id,name,formatted_address,geometry,formatted_phone_number,website")
	params.Add("key", c.cfg.APIKey)

	var raw detailsResponse
	if err := c.get(ctx, detailsURL, params, &raw); err != nil {
		return nil, err
	}

	if raw.Status != "OK" {
		return nil, fmt.Errorf("google places returned status %s: %s", raw.Status, raw.ErrorMessage)
	}

	return &Details{
		GooglePlaceID: raw.Result.PlaceID,
		Name:          raw.Result.Name,
		Address:       raw.Result.FormattedAddress,
		Latitude:      raw.Result.Geometry.Location.Lat,
		Longitude:     raw.Result.Geometry.Location.Lng,
		Phone:         raw.Result.FormattedPhoneNumber,
		Website:       raw.Result.Website,
	}, nil
}

func (c *Client) get(ctx context.Context, baseURL string, params url.Values, dest interface{}) error {
	requestURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call google places API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google places API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) photoLink(photoReference string) string {
	params := url.Values{}
	params.Add("maxwidth", "800")
	params.Add("photo_reference", photoReference)
	params.Add("key", c.cfg.APIKey)
	return fmt.Sprintf("%s?%s", photoURL, params.Encode())
}

func isFoodPlace(types []string) bool {
	for _, t := range types {
		if foodTypes[t] {
			return true
		}
	}
	return false
}
