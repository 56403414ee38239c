package module

import "strings"

// FeatureSet records which known runtime helpers must be linked alongside
// the emitted artifact (spec.md §4.1, §9's "feature flag" glossary entry):
// a bit for each helper, set by inspecting the relative path of every
// module included in the unit.
type FeatureSet struct {
	TLS   bool // src/runtime/tls* or libraries/*/src/runtime/tls*
	Metal bool // src/runtime/metal* or libraries/*/src/runtime/metal*
}

// detectFeatures scans every module's relative path for the fixed set of
// runtime-helper path fragments that flip a feature bit.
func detectFeatures(infos []Info) FeatureSet {
	var fs FeatureSet
	for _, m := range infos {
		p := strings.ToLower(m.RelPath)
		if strings.Contains(p, "runtime/tls") {
			fs.TLS = true
		}
		if strings.Contains(p, "runtime/metal") {
			fs.Metal = true
		}
	}
	return fs
}
