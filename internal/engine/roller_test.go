package engine_test

import (
	"fmt"
)

// scriptedRoller returns queued rolls in order and fails when exhausted
type scriptedRoller struct {
	rolls []int
	sizes []int
}

func newScriptedRoller(rolls ...int) *scriptedRoller {
	return &scriptedRoller{rolls: rolls}
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	if len(r.rolls) == 0 {
		return 0, fmt.Errorf("no scripted roll left for d%d", size)
	}
	next := r.rolls[0]
	r.rolls = r.rolls[1:]
	return next, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
