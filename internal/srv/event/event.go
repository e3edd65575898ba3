package event

import (
	"fmt"
	"strings"
)

// Inputs
type InputId int

const (
	LEFT_INPUT InputId = iota
	RIGHT_INPUT
	START_INPUT
	STOP_INPUT
	EXIT_INPUT
	PLUS_INPUT
	MINUS_INPUT
	MOUSE_INPUT
)

// INPUT_COUNT is the number of flag inputs, MOUSE_INPUT excluded.
const INPUT_COUNT = int(MOUSE_INPUT)

var inputNames = []string{"left", "right", "start", "stop", "exit", "plus", "minus", "mouse"}

func (i InputId) String() string {
	if i < 0 || int(i) >= len(inputNames) {
		return fmt.Sprintf("input(%d)", int(i))
	}
	return inputNames[i]
}

func ParseInputId(name string) (InputId, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, inputName := range inputNames {
		if inputName == name {
			return InputId(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input: %s", name)
}

type InputEvent struct {
	InputId InputId
	// Click position, MOUSE_INPUT only
	X int
	Y int
}
