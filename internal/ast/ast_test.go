package ast

import "testing"

func TestMangleIRNameEntryMain(t *testing.T) {
	if got := MangleIRName("main", "core", true, false); got != "main" {
		t.Fatalf("got %q, want main", got)
	}
}

func TestMangleIRNameExternUnmangled(t *testing.T) {
	if got := MangleIRName("printf", "core.io", false, true); got != "printf" {
		t.Fatalf("got %q, want printf", got)
	}
}

func TestMangleIRNameOrdinaryFunction(t *testing.T) {
	got := MangleIRName("open_file", "core.io", false, false)
	want := "aster_core_io__open_file"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAddCalleeDeduplicates(t *testing.T) {
	f := &Func{Name: "a"}
	f.AddCallee(5)
	f.AddCallee(7)
	f.AddCallee(5)
	if len(f.CalleeIDs) != 2 {
		t.Fatalf("CalleeIDs = %v, want 2 unique entries", f.CalleeIDs)
	}
}
