package process

import "testing"

func leaf(name string) *Task { return &Task{Name: name} }

func TestCountTasks(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"single leaf", leaf("a"), 1},
		{"sequence", &Sequential{Left: leaf("a"), Right: leaf("b")}, 2},
		{"nested", &Xor{
			Left:  &Parallel{Left: leaf("a"), Right: leaf("b")},
			Right: &Sequential{Left: leaf("c"), Right: leaf("d")},
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountTasks(tt.node); got != tt.want {
				t.Errorf("CountTasks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountNodes(t *testing.T) {
	if got := CountNodes(leaf("a")); got != 1 {
		t.Errorf("single leaf: CountNodes = %d, want 1", got)
	}

	// Xor over (a||b) and (c,d): 3 internal + 4 leaves.
	node := &Xor{
		Left:  &Parallel{Left: leaf("a"), Right: leaf("b")},
		Right: &Sequential{Left: leaf("c"), Right: leaf("d")},
	}
	if got := CountNodes(node); got != 7 {
		t.Errorf("CountNodes = %d, want 7", got)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"task", leaf("a"), "a"},
		{"sequence", &Sequential{Left: leaf("a"), Right: leaf("b")}, "a,b"},
		{"parallel", &Parallel{Left: leaf("a"), Right: leaf("b")}, "a||b"},
		{"xor", &Xor{Left: leaf("a"), Right: leaf("b")}, "a^b"},
		{
			"xor child is parenthesized",
			&Sequential{Left: &Xor{Left: leaf("a"), Right: leaf("b")}, Right: leaf("c")},
			"(a^b),c",
		},
		{
			"mixed operators",
			&Xor{
				Left:  &Sequential{Left: leaf("a"), Right: leaf("b")},
				Right: leaf("c"),
			},
			"a,b^c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
		})
	}
}
