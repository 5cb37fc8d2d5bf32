package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WaterContainer is a bounded store of water measured in litres.
type WaterContainer struct {
	capacity decimal.Decimal
	stored   decimal.Decimal
}

// NewWaterContainer creates an empty container holding at most capacity litres.
func NewWaterContainer(capacity float64) *WaterContainer {
	return &WaterContainer{capacity: litres(capacity), stored: decimal.Zero}
}

// Capacity returns the container volume in litres.
func (c *WaterContainer) Capacity() float64 {
	return c.capacity.InexactFloat64()
}

// AddWater pours in the given litres. It fails with ErrContainerFull, leaving
// the container unchanged, when that exceeds the remaining volume.
func (c *WaterContainer) AddWater(l float64) error {
	return c.add(litres(l))
}

// UseWater draws the given litres and returns the volume left afterwards,
// not the volume drawn.
func (c *WaterContainer) UseWater(l float64) (float64, error) {
	left, err := c.use(litres(l))
	if err != nil {
		return 0, err
	}
	return left.InexactFloat64(), nil
}

// Water returns the volume stored in litres.
func (c *WaterContainer) Water() float64 {
	return c.stored.InexactFloat64()
}

func (c *WaterContainer) add(l decimal.Decimal) error {
	if l.IsNegative() {
		return fmt.Errorf("%w: %s litres", ErrInvalidAmount, l)
	}
	space := c.capacity.Sub(c.stored)
	if l.GreaterThan(space) {
		return fmt.Errorf("%w: trying to add %s litres to %s litres space", ErrContainerFull, l, space)
	}
	c.stored = c.stored.Add(l)
	return nil
}

func (c *WaterContainer) use(l decimal.Decimal) (decimal.Decimal, error) {
	if l.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s litres", ErrInvalidAmount, l)
	}
	if l.GreaterThan(c.stored) {
		return decimal.Zero, fmt.Errorf("%w: %s litres requested, %s stored", ErrContainerEmpty, l, c.stored)
	}
	c.stored = c.stored.Sub(l)
	return c.stored, nil
}

func (c *WaterContainer) level() decimal.Decimal {
	return c.stored
}
