package mapquest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type MapQuestGeocoder struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewMapQuestGeocoder(apiKey string) (*MapQuestGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("mapquest api key not set")
	}

	return &MapQuestGeocoder{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: "https://www.mapquestapi.com/geocoding/v1/address",
	}, nil
}

type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode resolves a postal code to a lat/lng pair.
func (g *MapQuestGeocoder) Geocode(ctx context.Context, zipcode string) (float64, float64, error) {
	u, _ := url.Parse(g.baseURL)
	q := u.Query()
	q.Set("key", g.apiKey)
	q.Set("location", zipcode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding service error: %s", resp.Status)
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, err
	}

	if len(out.Results) == 0 || len(out.Results[0].Locations) == 0 {
		return 0, 0, errors.New("no geocoding result for " + zipcode)
	}

	loc := out.Results[0].Locations[0].LatLng
	return loc.Lat, loc.Lng, nil
}
