package stitch

// loadTracer tracks the targets on the current traversal path, to tell a
// real dependency cycle apart from a shared dependency.
type loadTracer struct {
	trace []*Target
	m     map[*Target]bool

	reported map[*Target]bool
}

func newLoadTracer() *loadTracer {
	return &loadTracer{
		m:        make(map[*Target]bool),
		reported: make(map[*Target]bool),
	}
}

func (t *loadTracer) push(target *Target) {
	t.trace = append(t.trace, target)
	t.m[target] = true
}

func (t *loadTracer) pop() {
	n := len(t.trace)
	if n == 0 {
		return
	}
	last := t.trace[n-1]
	delete(t.m, last)
	t.trace = t.trace[:n-1]
}

func (t *loadTracer) onPath(target *Target) bool { return t.m[target] }

// cycle returns the names on the path from target to the top, or nil if
// the cycle through target was reported already.
func (t *loadTracer) cycle(target *Target) []string {
	if t.reported[target] {
		return nil
	}
	t.reported[target] = true

	var names []string
	started := false
	for _, x := range t.trace {
		if x == target {
			started = true
		}
		if started {
			names = append(names, x.Name())
		}
	}
	return append(names, target.Name())
}
