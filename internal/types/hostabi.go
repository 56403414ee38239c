package types

// RegisterHostStructs installs the fixed set of built-in structs whose
// layout is derived from the host ABI rather than source declarations
// (spec.md §3): PollFd, TimeSpec, Stat, AttrList, AttrRef, and the two
// opaque directory-traversal types FTS/FTSENT. Real field sizes come from
// golang.org/x/sys/unix where the target has it (hostabi_unix.go); a
// portable fallback (hostabi_fallback.go) covers build configurations
// where that package does not expose the struct.
func RegisterHostStructs(in *Interner) {
	abi := currentHostABI()

	in.RegisterStruct("PollFd", &Layout{
		Size:  abi.pollFdSize,
		Align: 4,
		Fields: []FieldType{
			{Name: "fd", Type: I32(), Offset: 0},
			{Name: "events", Type: I16(), Offset: 4},
			{Name: "revents", Type: I16(), Offset: 6},
		},
	})

	in.RegisterStruct("TimeSpec", &Layout{
		Size:  abi.timespecSize,
		Align: 8,
		Fields: []FieldType{
			{Name: "sec", Type: I64(), Offset: 0},
			{Name: "nsec", Type: I64(), Offset: 8},
		},
	})

	in.RegisterStruct("Stat", &Layout{
		Size:  abi.statSize,
		Align: 8,
		Fields: []FieldType{
			{Name: "dev", Type: U64(), Offset: 0},
			{Name: "ino", Type: U64(), Offset: 8},
			{Name: "nlink", Type: U64(), Offset: 16},
			{Name: "mode", Type: U32(), Offset: 24},
			{Name: "uid", Type: U32(), Offset: 28},
			{Name: "gid", Type: U32(), Offset: 32},
			{Name: "size", Type: I64(), Offset: 40},
			{Name: "blksize", Type: I64(), Offset: 48},
			{Name: "blocks", Type: I64(), Offset: 56},
		},
	})

	// getattrlist(2)/attrlist family. Not exposed by golang.org/x/sys/unix
	// on every platform; these layouts are hand-derived from the Darwin
	// attrlist struct rather than read off a Go struct's Sizeof, since no
	// pack dependency models them.
	in.RegisterStruct("AttrList", &Layout{
		Size:  12,
		Align: 4,
		Fields: []FieldType{
			{Name: "bitmapcount", Type: U16(), Offset: 0},
			{Name: "reserved", Type: U16(), Offset: 2},
			{Name: "commonattr", Type: U32(), Offset: 4},
			{Name: "volattr", Type: U32(), Offset: 8},
		},
	})

	in.RegisterStruct("AttrRef", &Layout{
		Size:  8,
		Align: 4,
		Fields: []FieldType{
			{Name: "dataoffset", Type: I32(), Offset: 0},
			{Name: "datalength", Type: U32(), Offset: 4},
		},
	})

	// FTS/FTSENT are always accessed through pointer (ptr of FTS), so an
	// opaque zero-field layout is sufficient: aster code never reads their
	// fields directly, only passes the pointer to extern fts_* calls.
	in.RegisterStruct("FTS", &Layout{Size: 0, Align: 8})
	in.RegisterStruct("FTSENT", &Layout{Size: 0, Align: 8})
}

type hostABI struct {
	pollFdSize   int
	timespecSize int
	statSize     int
}
