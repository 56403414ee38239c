package module

// SynthesizeNamespaces adds a KindNamespace Info for every dotted-name
// prefix implied by a real module's own dotted name or its imports that has
// no backing file module of its own (spec.md §3, e.g. "core" from
// "core.io"). Synthesized entries carry no lexable content: their
// StartOffset is placed at unitLen, after every real module's span, so
// TagTokens's ascending-StartOffset sweep never misattributes a real token
// to one.
func SynthesizeNamespaces(infos []Info, unitLen int) []Info {
	have := map[string]bool{}
	nextID := 0
	for _, m := range infos {
		have[m.Dotted] = true
		if m.ID >= nextID {
			nextID = m.ID + 1
		}
	}

	seen := map[string]bool{}
	var extra []Info
	addPrefixes := func(dotted string) {
		for i := 0; i < len(dotted); i++ {
			if dotted[i] != '.' {
				continue
			}
			prefix := dotted[:i]
			if have[prefix] || seen[prefix] {
				continue
			}
			seen[prefix] = true
			extra = append(extra, Info{
				ID:          nextID,
				Dotted:      prefix,
				Kind:        KindNamespace,
				StartOffset: unitLen,
			})
			nextID++
		}
	}

	for _, m := range infos {
		addPrefixes(m.Dotted)
		for _, imp := range m.Imports {
			addPrefixes(imp)
		}
	}
	return append(infos, extra...)
}
