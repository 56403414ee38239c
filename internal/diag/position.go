package diag

// ModuleSpan is the slice of module placement a PositionResolver needs:
// spec.md §7 requires a diagnostic's span to carry "a module-relative file
// path, 1-based line and column derived from the owning module's unit
// offset." This mirrors internal/module.Info's RelPath/StartOffset fields,
// duplicated here rather than imported so diag — depended on by every
// other package — stays a leaf with no dependency of its own.
type ModuleSpan struct {
	RelPath     string
	StartOffset int
}

// PositionResolver maps a byte offset into an assembled compilation unit
// to the owning module's relative path plus a 1-based line/column, counted
// from that module's own StartOffset (spec.md §7). Modules must be sorted
// by StartOffset ascending, the order internal/module.Loader already
// produces.
type PositionResolver struct {
	src     string
	modules []ModuleSpan
}

// NewPositionResolver builds a resolver over the full unit text and its
// modules' spans.
func NewPositionResolver(src string, modules []ModuleSpan) *PositionResolver {
	return &PositionResolver{src: src, modules: modules}
}

// Resolve returns the Span naming the module owning offset and its
// 1-based line/col within that module. Excerpt is left blank for the
// caller to fill in from the token text.
func (p *PositionResolver) Resolve(offset int) Span {
	if p == nil || len(p.modules) == 0 {
		return Span{}
	}
	m := 0
	for m+1 < len(p.modules) && p.modules[m+1].StartOffset <= offset {
		m++
	}
	mod := p.modules[m]

	end := offset
	if end > len(p.src) {
		end = len(p.src)
	}
	if end < mod.StartOffset {
		end = mod.StartOffset
	}
	line, col := 1, 1
	for i := mod.StartOffset; i < end; i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Span{File: mod.RelPath, Line: line, Col: col}
}
