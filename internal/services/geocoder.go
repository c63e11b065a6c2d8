package services

import (
	"sync"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/mapquest/open"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
)

var (
	geocoder     geo.Geocoder
	geocoderOnce sync.Once
)

// Geocoder returns the process-wide geocoding client. MapQuest when an API
// key is configured, Nominatim otherwise.
func Geocoder() geo.Geocoder {
	geocoderOnce.Do(func() {
		provider := config.Getenv("GEOCODER_PROVIDER", "mapquest")
		key := config.Getenv("GEOCODER_API_KEY", "")
		if provider == "mapquest" && key != "" {
			geocoder = open.Geocoder(key)
			return
		}
		geocoder = openstreetmap.Geocoder()
	})
	return geocoder
}

// GeocodeAddress resolves a free-form address into a GeoJSON Point with the
// geocoder's address breakdown. The reverse lookup for address parts is best
// effort; the point alone is enough for radius search.
func GeocodeAddress(address string) (*models.Location, error) {
	location, err := Geocoder().Geocode(address)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, httperr.BadRequest("could not geocode address %s", address)
	}

	loc := &models.Location{
		Type:             "Point",
		Coordinates:      []float64{location.Lng, location.Lat},
		FormattedAddress: address,
	}

	if addr, err := Geocoder().ReverseGeocode(location.Lat, location.Lng); err == nil && addr != nil {
		if addr.FormattedAddress != "" {
			loc.FormattedAddress = addr.FormattedAddress
		}
		loc.Street = addr.Street
		loc.City = addr.City
		loc.State = addr.State
		loc.Zipcode = addr.Postcode
		loc.Country = addr.Country
	}

	return loc, nil
}
