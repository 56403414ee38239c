// Package builtins provides the two kinds of identifiers aster makes
// available without a user declaration (spec.md §4.4, §4.5): host-provided
// compile-time constants (name resolution step 6) and the two synthesized
// allocator/copy externs, `calloc` and `memcpy`, the code generator can
// call without the source declaring them.
//
// The constant table follows the teacher's registry.go shape: a flat
// package-level map populated once in an init(), rather than a struct
// hierarchy — AILANG has no host-constant table of its own, so this is
// the closest teacher precedent for "register many small facts under a
// name and look them up by string."
package builtins

import (
	"github.com/0xSMW/aster/internal/types"
	"golang.org/x/sys/unix"
)

// Constant is a host-provided compile-time numeric constant.
type Constant struct {
	Name  string
	Type  *types.Type
	Value int64
}

// Registry maps a constant's source-visible name to its value and type.
var Registry = make(map[string]*Constant)

func register(name string, t *types.Type, value int64) {
	Registry[name] = &Constant{Name: name, Type: t, Value: value}
}

func init() {
	registerFileFlags()
	registerClockIDs()
	registerFSAttrFlags()
}

func registerFileFlags() {
	register("O_RDONLY", types.I32(), int64(unix.O_RDONLY))
	register("O_WRONLY", types.I32(), int64(unix.O_WRONLY))
	register("O_RDWR", types.I32(), int64(unix.O_RDWR))
	register("O_CREAT", types.I32(), int64(unix.O_CREAT))
	register("O_TRUNC", types.I32(), int64(unix.O_TRUNC))
	register("O_APPEND", types.I32(), int64(unix.O_APPEND))
	register("O_NONBLOCK", types.I32(), int64(unix.O_NONBLOCK))
}

func registerClockIDs() {
	register("CLOCK_MONOTONIC", types.I32(), int64(unix.CLOCK_MONOTONIC))
	register("CLOCK_REALTIME", types.I32(), int64(unix.CLOCK_REALTIME))
}

// registerFSAttrFlags registers the getattrlist(2)-family flags used with
// the pre-registered AttrList/AttrRef structs (internal/types/hostabi.go).
// These are not exposed by golang.org/x/sys/unix on every platform, so the
// numeric values are the fixed Darwin attrlist constants rather than an
// import from the unix package.
func registerFSAttrFlags() {
	register("ATTR_BIT_MAP_COUNT", types.U16(), 5)
	register("ATTR_CMN_NAME", types.U32(), 0x00000001)
	register("ATTR_CMN_OBJTYPE", types.U32(), 0x00000008)
	register("ATTR_CMN_MODTIME", types.U32(), 0x00000400)
}

// Lookup resolves a host-constant name, for name resolution step 6.
func Lookup(name string) (*Constant, bool) {
	c, ok := Registry[name]
	return c, ok
}

// AllocatorSet is the fixed small set of functions whose direct call marks
// a function `direct_alloc` (spec.md §4.5).
var AllocatorSet = map[string]bool{
	"malloc":          true,
	"calloc":          true,
	"realloc":         true,
	"posix_memalign":  true,
}

// Whitelist is the small set of libc helpers that, despite being extern
// and outside AllocatorSet, are known not to allocate and so do not taint
// a `noalloc` function's transitive closure (spec.md §4.5).
var Whitelist = map[string]bool{
	"memcpy": true, "memmove": true, "memset": true, "memcmp": true,
	"strlen": true, "strcmp": true, "strncmp": true, "strcpy": true, "strncpy": true,
	"printf": true, "fprintf": true, "snprintf": true,
	"write": true, "read": true, "close": true,
	"time": true, "clock_gettime": true,
	"getenv": true, "atoi": true, "atol": true, "atof": true,
}
