//go:build !unix

package types

// currentHostABI is the portable fallback used on build targets where
// golang.org/x/sys/unix does not expose the real structs (e.g. a
// cross-compiled Windows host driving emission for a unix target). The
// values mirror a typical 64-bit unix ABI so emitted layouts stay
// consistent even off-target.
func currentHostABI() hostABI {
	return hostABI{
		pollFdSize:   8,
		timespecSize: 16,
		statSize:     144,
	}
}
