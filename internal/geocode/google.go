// Package geocode превращает адрес из сообщения в координаты и административные единицы
package geocode

import (
	"context"
	"fmt"

	"github.com/shenikar/incident_intake/internal/models"
	"googlemaps.github.io/maps"
)

// Типы компонентов адреса Google Geocoding API
const (
	componentCity    = "locality"
	componentRegion  = "administrative_area_level_1"
	componentCountry = "country"
)

// GoogleGeocoder реализует service.Geocoder поверх Google Geocoding API.
// Без API-ключа геокодирование отключено и любой адрес считается ненайденным.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder создаёт геокодер. baseURL пустой в продакшене и задаётся в тестах.
func NewGoogleGeocoder(apiKey, baseURL string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return &GoogleGeocoder{}, nil
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// GeocodeAddress возвращает первый результат геокодирования или nil, если ничего не найдено
func (g *GoogleGeocoder) GeocodeAddress(ctx context.Context, address string) (*models.GeocodeResult, error) {
	if g.client == nil || address == "" {
		return nil, nil
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	result := &models.GeocodeResult{
		Lat: first.Geometry.Location.Lat,
		Lng: first.Geometry.Location.Lng,
	}
	for _, component := range first.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case componentCity:
				result.City = component.LongName
			case componentRegion:
				result.Region = component.LongName
			case componentCountry:
				result.Country = component.LongName
			}
		}
	}
	return result, nil
}
