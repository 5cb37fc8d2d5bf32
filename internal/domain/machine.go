// Package domain contains the espresso machine, its containers and the
// persistence ports the application depends on.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Settings are the per-process constants the machine is built with.
type Settings struct {
	BeansPerEspresso  int
	LitresPerEspresso float64
	// LitresUsedPerDescale is the water one descale consumes.
	LitresUsedPerDescale float64
	// LitresPerDescale is the brewing-water debt at which descaling is due.
	LitresPerDescale float64
	BeansCapacity    int
	WaterCapacity    float64

	// LegacyAccounting keeps the historical brew arithmetic: beans are not
	// refunded when the water debit fails, and brewing lowers the descale
	// counter instead of raising it.
	LegacyAccounting bool
}

// DefaultSettings returns the stock machine configuration.
func DefaultSettings() Settings {
	return Settings{
		BeansPerEspresso:     1,
		LitresPerEspresso:    0.05,
		LitresUsedPerDescale: 1,
		LitresPerDescale:     5,
		BeansCapacity:        50,
		WaterCapacity:        2,
		LegacyAccounting:     true,
	}
}

// Validate reports settings the machine cannot work with.
func (s Settings) Validate() error {
	var errs []error
	if s.BeansPerEspresso <= 0 {
		errs = append(errs, errors.New("beans_per_espresso must be positive"))
	}
	if s.LitresPerEspresso <= 0 {
		errs = append(errs, errors.New("litres_used_per_espresso must be positive"))
	}
	if s.LitresUsedPerDescale < 0 {
		errs = append(errs, errors.New("litres_used_per_descale must not be negative"))
	}
	if s.LitresPerDescale <= 0 {
		errs = append(errs, errors.New("litres_per_descale must be positive"))
	}
	if s.BeansCapacity <= 0 {
		errs = append(errs, errors.New("beans_container must be positive"))
	}
	if s.WaterCapacity <= 0 {
		errs = append(errs, errors.New("water_container must be positive"))
	}
	return errors.Join(errs...)
}

// EspressoMachine brews espressos from an attached beans container and water
// container and tracks how much water has gone through it since the last
// descale. It is not safe for concurrent use.
type EspressoMachine struct {
	settings Settings
	mains    bool

	beans *BeansContainer
	water *WaterContainer

	litresSinceDescale decimal.Decimal
}

// NewEspressoMachine creates a machine without containers. When mains is
// true the water supply is treated as unlimited and cannot be topped up.
func NewEspressoMachine(settings Settings, mains bool) *EspressoMachine {
	return &EspressoMachine{settings: settings, mains: mains, litresSinceDescale: decimal.Zero}
}

// Settings returns the constants the machine was built with.
func (m *EspressoMachine) Settings() Settings { return m.settings }

// Mains reports whether the machine is on mains water.
func (m *EspressoMachine) Mains() bool { return m.mains }

// LitresSinceLastDescale returns the descale counter.
func (m *EspressoMachine) LitresSinceLastDescale() float64 {
	return m.litresSinceDescale.InexactFloat64()
}

// SetBeansContainer attaches c as the beans container, replacing any other.
func (m *EspressoMachine) SetBeansContainer(c *BeansContainer) { m.beans = c }

// SetWaterContainer attaches c as the water container, replacing any other.
func (m *EspressoMachine) SetWaterContainer(c *WaterContainer) { m.water = c }

// BeansContainer returns the attached beans container, or nil.
func (m *EspressoMachine) BeansContainer() *BeansContainer { return m.beans }

// WaterContainer returns the attached water container, or nil.
func (m *EspressoMachine) WaterContainer() *WaterContainer { return m.water }

// HasBeansContainer reports whether a beans container is attached, even an empty one.
func (m *EspressoMachine) HasBeansContainer() bool { return m.beans != nil }

// HasWaterContainer reports whether a water container is attached, even an empty one.
func (m *EspressoMachine) HasWaterContainer() bool { return m.water != nil }

// AddBeans adds spoons to the beans container.
func (m *EspressoMachine) AddBeans(n int) error {
	if m.beans == nil {
		return fmt.Errorf("%w: beans", ErrNoContainer)
	}
	return m.beans.AddBeans(n)
}

// UseBeans takes spoons from the beans container.
func (m *EspressoMachine) UseBeans(n int) (int, error) {
	if m.beans == nil {
		return 0, fmt.Errorf("%w: beans", ErrNoContainer)
	}
	return m.beans.UseBeans(n)
}

// Beans returns the spoons left in the beans container.
func (m *EspressoMachine) Beans() (int, error) {
	if m.beans == nil {
		return 0, fmt.Errorf("%w: beans", ErrNoContainer)
	}
	return m.beans.Beans(), nil
}

// AddWater tops up the water container. Machines on mains supply refuse.
func (m *EspressoMachine) AddWater(l float64) error {
	if m.mains {
		return ErrMainsSupply
	}
	if m.water == nil {
		return fmt.Errorf("%w: water", ErrNoContainer)
	}
	return m.water.AddWater(l)
}

// UseWater draws from the water container and returns the volume left.
func (m *EspressoMachine) UseWater(l float64) (float64, error) {
	if m.water == nil {
		return 0, fmt.Errorf("%w: water", ErrNoContainer)
	}
	return m.water.UseWater(l)
}

// Water returns the litres left in the water container.
func (m *EspressoMachine) Water() (float64, error) {
	if m.water == nil {
		return 0, fmt.Errorf("%w: water", ErrNoContainer)
	}
	return m.water.Water(), nil
}

// Descale runs a descale cycle, consuming LitresUsedPerDescale of water and
// resetting the descale counter.
func (m *EspressoMachine) Descale() error {
	if m.water == nil {
		return fmt.Errorf("%w: water", ErrNoContainer)
	}
	if _, err := m.water.use(litres(m.settings.LitresUsedPerDescale)); err != nil {
		if errors.Is(err, ErrContainerEmpty) {
			return fmt.Errorf("%w to descale: %s litres remaining", ErrNoWater, m.water.level())
		}
		return err
	}
	m.litresSinceDescale = decimal.Zero
	return nil
}

// MakeEspressos brews quantity espressos and returns the litres of coffee
// made.
func (m *EspressoMachine) MakeEspressos(quantity int) (float64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if m.litresSinceDescale.GreaterThan(litres(m.settings.LitresPerDescale)) {
		return 0, fmt.Errorf("%w: %s litres since last descale", ErrNeedsDescale, m.litresSinceDescale)
	}
	if m.beans == nil {
		return 0, fmt.Errorf("%w: beans", ErrNoContainer)
	}
	if m.water == nil {
		return 0, fmt.Errorf("%w: water", ErrNoContainer)
	}

	// Compared by division so a huge quantity cannot overflow the spoon count.
	if per := m.settings.BeansPerEspresso; per > 0 && quantity > m.beans.Beans()/per {
		return 0, m.noBeans()
	}
	spoons := m.settings.BeansPerEspresso * quantity
	made := litres(m.settings.LitresPerEspresso).Mul(decimal.NewFromInt(int64(quantity)))

	if !m.settings.LegacyAccounting {
		// Beans are already known to suffice; check water before debiting either.
		if made.GreaterThan(m.water.level()) {
			return 0, m.noWater()
		}
	}

	if _, err := m.beans.UseBeans(spoons); err != nil {
		if errors.Is(err, ErrContainerEmpty) {
			return 0, m.noBeans()
		}
		return 0, err
	}
	if _, err := m.water.use(made); err != nil {
		if errors.Is(err, ErrContainerEmpty) {
			return 0, m.noWater()
		}
		return 0, err
	}

	if m.settings.LegacyAccounting {
		m.litresSinceDescale = m.litresSinceDescale.Sub(made)
	} else {
		m.litresSinceDescale = m.litresSinceDescale.Add(made)
	}
	return made.InexactFloat64(), nil
}

// MakeEspresso brews a single espresso.
func (m *EspressoMachine) MakeEspresso() (float64, error) {
	return m.MakeEspressos(1)
}

// MakeDoubleEspresso brews two espressos.
func (m *EspressoMachine) MakeDoubleEspresso() (float64, error) {
	return m.MakeEspressos(2)
}

func (m *EspressoMachine) noBeans() error {
	return fmt.Errorf("%w to make an espresso: %d spoons remaining", ErrNoBeans, m.beans.Beans())
}

func (m *EspressoMachine) noWater() error {
	return fmt.Errorf("%w to make an espresso: %s litres remaining", ErrNoWater, m.water.level())
}
