package domain

import "errors"

var (
	// ErrContainerFull indicates that an add would exceed the remaining capacity.
	ErrContainerFull = errors.New("container full")
	// ErrContainerEmpty indicates that a use asked for more than is stored.
	ErrContainerEmpty = errors.New("not enough in the container")
	// ErrNoContainer indicates that the machine has no container of the required kind.
	ErrNoContainer = errors.New("no container attached")
	// ErrMainsSupply indicates that water cannot be added to a machine on mains supply.
	ErrMainsSupply = errors.New("water cannot be added as the machine is on mains supply")
	// ErrNoBeans indicates that there are not enough beans to brew.
	ErrNoBeans = errors.New("not enough beans")
	// ErrNoWater indicates that there is not enough water to brew or descale.
	ErrNoWater = errors.New("not enough water")
	// ErrNeedsDescale indicates that the machine must be descaled before brewing.
	ErrNeedsDescale = errors.New("the machine needs descaling")
	// ErrInvalidQuantity indicates a brew quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidAmount indicates a negative amount passed to a container.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// ErrorKind returns a stable snake_case name for a machine error, or
// "internal" when err is not one of the domain errors.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNeedsDescale):
		return "needs_descale"
	case errors.Is(err, ErrNoBeans):
		return "no_beans"
	case errors.Is(err, ErrNoWater):
		return "no_water"
	case errors.Is(err, ErrMainsSupply):
		return "mains_supply"
	case errors.Is(err, ErrNoContainer):
		return "no_container"
	case errors.Is(err, ErrContainerFull):
		return "container_full"
	case errors.Is(err, ErrContainerEmpty):
		return "container_empty"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidAmount):
		return "validation"
	default:
		return "internal"
	}
}
