package collab

import (
	"context"
	"math/rand"
	"sync"

	"github.com/uppa/uppa_core/internal/models"
)

var weatherConditions = []models.WeatherInfo{
	{Condition: "Soleado", Icon: "fas fa-sun"},
	{Condition: "Parcialmente Nublado", Icon: "fas fa-cloud-sun"},
	{Condition: "Nublado", Icon: "fas fa-cloud"},
	{Condition: "Lluvia Ligera", Icon: "fas fa-cloud-rain"},
	{Condition: "Tormenta", Icon: "fas fa-bolt"},
	{Condition: "Niebla", Icon: "fas fa-smog"},
	{Condition: "Ventoso", Icon: "fas fa-wind"},
}

// SimulatedWeather produces plausible current conditions without an
// external provider. Useful in development and as a fallback when no
// weather API is configured. Safe for concurrent use.
type SimulatedWeather struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedWeather seeds the simulator; a fixed seed gives a
// reproducible sequence.
func NewSimulatedWeather(seed int64) *SimulatedWeather {
	return &SimulatedWeather{rng: rand.New(rand.NewSource(seed))}
}

// Current picks a random condition with a temperature between 10 and 29 °C
func (w *SimulatedWeather) Current(_ context.Context, _ models.Coordinates) (models.WeatherInfo, error) {
	w.mu.Lock()
	info := weatherConditions[w.rng.Intn(len(weatherConditions))]
	info.Temperature = 10 + w.rng.Intn(20)
	w.mu.Unlock()
	return info, nil
}
