package core

import "testing"

func TestActionDirectLane(t *testing.T) {
	tests := []struct {
		action Action
		lane   int
		ok     bool
	}{
		{ActionLane0, 0, true},
		{ActionLane1, 1, true},
		{ActionLane2, 2, true},
		{ActionLaneLeft, 0, false},
		{ActionPause, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.action.String(), func(t *testing.T) {
			lane, ok := tc.action.DirectLane()
			if lane != tc.lane || ok != tc.ok {
				t.Errorf("DirectLane() = (%d, %v), expected (%d, %v)", lane, ok, tc.lane, tc.ok)
			}
		})
	}
}
