package collab

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/models"
)

func TestSimulatedWeather(t *testing.T) {
	ctx := context.Background()
	here := models.Coordinates{Lat: -34.60, Lng: -58.38}

	t.Run("Conditions stay in the catalogue and range", func(t *testing.T) {
		w := NewSimulatedWeather(1)
		for i := 0; i < 100; i++ {
			info, err := w.Current(ctx, here)
			assert.NoError(t, err)
			assert.NotEmpty(t, info.Condition)
			assert.NotEmpty(t, info.Icon)
			assert.GreaterOrEqual(t, info.Temperature, 10)
			assert.LessOrEqual(t, info.Temperature, 29)
		}
	})

	t.Run("Fixed seed gives a reproducible sequence", func(t *testing.T) {
		a := NewSimulatedWeather(42)
		b := NewSimulatedWeather(42)
		for i := 0; i < 20; i++ {
			wa, _ := a.Current(ctx, here)
			wb, _ := b.Current(ctx, here)
			assert.Equal(t, wa, wb)
		}
	})

	t.Run("Safe under concurrent readers", func(t *testing.T) {
		w := NewSimulatedWeather(7)

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					info, err := w.Current(ctx, here)
					assert.NoError(t, err)
					assert.GreaterOrEqual(t, info.Temperature, 10)
					assert.LessOrEqual(t, info.Temperature, 29)
				}
			}()
		}
		wg.Wait()
	})
}
