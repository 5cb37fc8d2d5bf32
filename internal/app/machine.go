// Package app holds the application services and business logic.
package app

import (
	"fmt"

	"espresso/internal/domain"
)

// NewMachine builds the process machine: containers sized from settings,
// attached, and filled to capacity.
func NewMachine(settings domain.Settings, mains bool) (*domain.EspressoMachine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	m := domain.NewEspressoMachine(settings, mains)
	m.SetBeansContainer(domain.NewBeansContainer(settings.BeansCapacity))
	m.SetWaterContainer(domain.NewWaterContainer(settings.WaterCapacity))

	if err := m.AddBeans(settings.BeansCapacity); err != nil {
		return nil, fmt.Errorf("fill beans: %w", err)
	}
	// The machine refuses top-ups on mains, so the tank is filled directly.
	if err := m.WaterContainer().AddWater(settings.WaterCapacity); err != nil {
		return nil, fmt.Errorf("fill water: %w", err)
	}
	return m, nil
}
