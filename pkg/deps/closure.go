package deps

import "slices"

type frame struct {
	name   string
	parent string
	depth  int
}

// ResolveClosure walks the transitive dependencies of seeds over g and
// returns every reached package exactly once.
//
// Seeds are processed in order. A seed missing from g is skipped. For a
// present seed the walk starts from the seed's own dependencies: the seed is
// looked up but not emitted, unless opts.IncludeSeeds is set. The walk is
// depth-first pre-order, following each package's dependencies in lockfile
// order. A visited set owned by this call stops cycles and diamonds from
// producing repeated entries.
//
// Entry.Depth counts edges from the seed (seed = 0) and Entry.Parent is the
// package through which the entry was first reached.
func ResolveClosure(g *Graph, seeds []string, opts Options) []Entry {
	opts = opts.WithDefaults()
	if g == nil {
		return nil
	}

	var out []Entry
	visited := make(map[string]bool)

	for _, seed := range seeds {
		if !g.Has(seed) {
			opts.Logger("seed %s not found in lockfile", seed)
			continue
		}

		var stack []frame
		if opts.IncludeSeeds {
			stack = append(stack, frame{name: seed})
		} else {
			stack = pushDeps(stack, g, frame{name: seed})
		}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[f.name] {
				continue
			}
			visited[f.name] = true
			out = append(out, Entry{
				Name:    f.name,
				Version: g.Version(f.name),
				Depth:   f.depth,
				Parent:  f.parent,
			})
			stack = pushDeps(stack, g, f)
		}
	}

	return out
}

// pushDeps pushes the dependencies of f in reverse so the first dependency
// is popped first.
func pushDeps(stack []frame, g *Graph, f frame) []frame {
	children := g.Dependencies(f.name)
	for _, c := range slices.Backward(children) {
		stack = append(stack, frame{name: c, parent: f.name, depth: f.depth + 1})
	}
	return stack
}

// DirectOnly reports seeds as unversioned entries, for use when no lockfile
// is available.
func DirectOnly(seeds []string) []Entry {
	out := make([]Entry, len(seeds))
	for i, s := range seeds {
		out[i] = Entry{Name: s}
	}
	return out
}

// AllPackages lists every package of g in lockfile order.
func AllPackages(g *Graph) []Entry {
	if g == nil {
		return nil
	}
	pkgs := g.Packages()
	out := make([]Entry, len(pkgs))
	for i, p := range pkgs {
		out[i] = Entry{Name: p.Name, Version: p.Version}
	}
	return out
}
