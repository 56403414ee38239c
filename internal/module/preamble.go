package module

import "strings"

// Preamble is the result of scanning a file's leading `use` imports
// (spec.md §4.1). Imports lists each `use <dotted>` import in source order.
// Stripped is the original source with only the `use` lines of the preamble
// removed — every other preamble line (blank, comment) is preserved
// verbatim, as is everything after the preamble.
type Preamble struct {
	Imports  []string
	Stripped string
}

// ScanPreamble walks src line by line. The preamble is the run of leading
// blank lines, `#`-comment lines, and `use <dotted>` lines; the first line
// that is none of those terminates scanning.
func ScanPreamble(src string) Preamble {
	lines := splitLinesKeepEnds(src)
	var imports []string
	var kept []string
	inPreamble := true
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")
		content := strings.TrimSpace(trimmed)
		if inPreamble {
			switch {
			case content == "":
				kept = append(kept, line)
				continue
			case strings.HasPrefix(content, "#"):
				kept = append(kept, line)
				continue
			case strings.HasPrefix(content, "use "):
				dotted := strings.TrimSpace(strings.TrimPrefix(content, "use "))
				imports = append(imports, dotted)
				continue
			default:
				inPreamble = false
			}
		}
		kept = append(kept, line)
	}
	return Preamble{Imports: imports, Stripped: strings.Join(kept, "")}
}

// splitLinesKeepEnds splits src into lines, each retaining its trailing
// newline (if any), so rejoining with "" reproduces the original bytes
// modulo any lines removed by the caller.
func splitLinesKeepEnds(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}
