package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Human-readable statuses shown on the machine display.
const (
	StatusDescaleNeeded    = "Descale needed"
	StatusAddBeansAndWater = "Add beans and water"
	StatusAddBeans         = "Add beans"
	StatusAddWater         = "Add water"
)

// Status returns what the machine display shows, in priority order:
// descale, beans and water, beans, water, then the number of espressos left.
// A missing container reads as empty.
func (m *EspressoMachine) Status() string {
	s := m.settings
	beans := 0
	if m.beans != nil {
		beans = m.beans.Beans()
	}
	water := decimal.Zero
	if m.water != nil {
		water = m.water.level()
	}
	perEspresso := litres(s.LitresPerEspresso)

	if m.litresSinceDescale.GreaterThanOrEqual(litres(s.LitresPerDescale)) {
		if !m.mains && water.LessThan(litres(s.LitresUsedPerDescale)) {
			return StatusAddWater
		}
		return StatusDescaleNeeded
	}

	lowBeans := beans < s.BeansPerEspresso
	lowWater := water.LessThan(perEspresso)
	switch {
	case lowBeans && lowWater:
		return StatusAddBeansAndWater
	case lowBeans:
		return StatusAddBeans
	case !m.mains && lowWater:
		return StatusAddWater
	}

	left := espressosFrom(decimal.NewFromInt(int64(beans)), decimal.NewFromInt(int64(s.BeansPerEspresso)))
	if fromWater := espressosFrom(water, perEspresso); fromWater < left {
		left = fromWater
	}
	return fmt.Sprintf("%d Espressos Left", left)
}
