package service

import (
	"math"
	"testing"

	"lastwill-backend/internal/domain/entity"
)

func TestHaversineKm(t *testing.T) {
	jakarta := entity.Coordinates{Latitude: -6.2088, Longitude: 106.8456}
	surabaya := entity.Coordinates{Latitude: -7.2575, Longitude: 112.7521}

	t.Run("same point", func(t *testing.T) {
		if d := HaversineKm(jakarta, jakarta); d != 0 {
			t.Errorf("distance to self = %f", d)
		}
	})

	t.Run("known city pair", func(t *testing.T) {
		// Jakarta to Surabaya is roughly 663 km great-circle
		d := HaversineKm(jakarta, surabaya)
		if d < 650 || d > 680 {
			t.Errorf("Jakarta-Surabaya = %f km, expected around 663", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		forward := HaversineKm(jakarta, surabaya)
		backward := HaversineKm(surabaya, jakarta)
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("asymmetric distance: %f vs %f", forward, backward)
		}
	})

	t.Run("small offset", func(t *testing.T) {
		// One hundredth of a degree of latitude is about 1.11 km
		near := entity.Coordinates{Latitude: jakarta.Latitude + 0.01, Longitude: jakarta.Longitude}
		d := HaversineKm(jakarta, near)
		if d < 1.0 || d > 1.2 {
			t.Errorf("small offset = %f km, expected about 1.11", d)
		}
	})
}
