package dag

// New builds and validates a graph from an immutable list of definitions.
//
// Validation runs immediately and rejects:
//   - empty or duplicate task names
//   - prerequisites naming unregistered tasks (UnknownTaskError)
//   - any cycle, direct or indirect (CycleError)
func New(defs []Definition) (*Graph, error) {
	g := &Graph{nodes: make(map[TaskID]*node, len(defs))}

	for _, def := range defs {
		if def.Name == "" {
			return nil, invalidf("task name is required")
		}
		id := TaskID(def.Name)
		if _, exists := g.nodes[id]; exists {
			return nil, invalidf("duplicate task name %q", def.Name)
		}
		g.nodes[id] = &node{id: id, action: def.Action}
		g.order = append(g.order, id)
	}

	for _, def := range defs {
		n := g.nodes[TaskID(def.Name)]
		seen := make(map[TaskID]struct{}, len(def.DependsOn))
		for _, depName := range def.DependsOn {
			dep, ok := g.nodes[TaskID(depName)]
			if !ok {
				return nil, &UnknownTaskError{Name: depName, ReferencedBy: n.id}
			}
			if _, dup := seen[dep.id]; dup {
				continue
			}
			seen[dep.id] = struct{}{}
			n.deps = append(n.deps, dep)
		}
	}

	for _, id := range g.order {
		if _, err := g.Plan(id); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Lookup validates an invocation name.
func (g *Graph) Lookup(name string) (TaskID, error) {
	id := TaskID(name)
	if _, ok := g.nodes[id]; !ok {
		return "", &UnknownTaskError{Name: name}
	}
	return id, nil
}

// Tasks returns every task identifier in declaration order.
func (g *Graph) Tasks() []TaskID {
	return append([]TaskID(nil), g.order...)
}

// Prerequisites returns the direct prerequisites of id in declared order.
func (g *Graph) Prerequisites(id TaskID) []TaskID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]TaskID, len(n.deps))
	for i, d := range n.deps {
		out[i] = d.id
	}
	return out
}

// IsAggregate reports whether id only groups its prerequisites.
func (g *Graph) IsAggregate(id TaskID) bool {
	n, ok := g.nodes[id]
	return ok && n.action == nil
}

// Plan resolves the transitive prerequisites of id and returns them, followed
// by id itself, in dependency order. Prerequisites are visited depth first in
// declared order, and every task appears once even when it is reachable
// through several paths. Revisiting a task that is still being resolved on the
// current path fails with a CycleError.
func (g *Graph) Plan(id TaskID) ([]TaskID, error) {
	root, ok := g.nodes[id]
	if !ok {
		return nil, &UnknownTaskError{Name: string(id)}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[TaskID]int)
	var path []TaskID
	var order []TaskID

	var visit func(n *node) error
	visit = func(n *node) error {
		switch state[n.id] {
		case done:
			return nil
		case visiting:
			return &CycleError{Path: cyclePath(path, n.id)}
		}
		state[n.id] = visiting
		path = append(path, n.id)
		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[n.id] = done
		order = append(order, n.id)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// cyclePath cuts the resolution path at the first occurrence of id and closes
// the loop.
func cyclePath(path []TaskID, id TaskID) []TaskID {
	for i, p := range path {
		if p == id {
			out := append([]TaskID(nil), path[i:]...)
			return append(out, id)
		}
	}
	return []TaskID{id, id}
}
