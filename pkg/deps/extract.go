package deps

// ExtractRuntimeDeps returns the names of declarations that apply to the
// current environment and belong to none of the excluded groups, in
// declaration order.
//
// A declaration tagged with several groups is dropped as soon as one of them
// is excluded.
func ExtractRuntimeDeps(m *Manifest, excluded []string) []string {
	if m == nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool, len(m.Declarations))
	for _, d := range m.Declarations {
		if !d.ShouldInclude || d.InGroup(excluded...) || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		names = append(names, d.Name)
	}
	return names
}
