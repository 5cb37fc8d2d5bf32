package domain

import "fmt"

// BeansContainer is a bounded store of ground beans measured in spoons.
type BeansContainer struct {
	capacity int
	spoons   int
}

// NewBeansContainer creates an empty container holding at most capacity spoons.
func NewBeansContainer(capacity int) *BeansContainer {
	return &BeansContainer{capacity: capacity}
}

// Capacity returns the maximum number of spoons the container holds.
func (c *BeansContainer) Capacity() int {
	return c.capacity
}

// AddBeans adds n spoons. It fails with ErrContainerFull, leaving the
// container unchanged, when n exceeds the remaining space.
func (c *BeansContainer) AddBeans(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d spoons", ErrInvalidAmount, n)
	}
	space := c.capacity - c.spoons
	if n > space {
		return fmt.Errorf("%w: trying to add %d spoons to %d spoons space", ErrContainerFull, n, space)
	}
	c.spoons += n
	return nil
}

// UseBeans takes n spoons out of the container and returns n.
func (c *BeansContainer) UseBeans(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d spoons", ErrInvalidAmount, n)
	}
	if n > c.spoons {
		return 0, fmt.Errorf("%w: %d spoons requested, %d stored", ErrContainerEmpty, n, c.spoons)
	}
	c.spoons -= n
	return n, nil
}

// Beans returns the number of spoons stored.
func (c *BeansContainer) Beans() int {
	return c.spoons
}
