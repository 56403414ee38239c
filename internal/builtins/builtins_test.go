package builtins

import (
	"testing"

	"github.com/0xSMW/aster/internal/types"
)

func TestLookupKnownConstant(t *testing.T) {
	c, ok := Lookup("O_RDONLY")
	if !ok {
		t.Fatal("expected O_RDONLY to be registered")
	}
	if !c.Type.Equal(types.I32()) {
		t.Fatalf("O_RDONLY type = %v, want i32", c.Type)
	}
}

func TestLookupUnknownConstant(t *testing.T) {
	if _, ok := Lookup("NOT_A_REAL_CONSTANT"); ok {
		t.Fatal("expected lookup miss for unregistered name")
	}
}

func TestAllocatorSetAndWhitelistDisjoint(t *testing.T) {
	for name := range AllocatorSet {
		if Whitelist[name] {
			t.Fatalf("%q appears in both AllocatorSet and Whitelist", name)
		}
	}
}

func TestSynthFuncsShareSentinelID(t *testing.T) {
	in := types.NewInterner()
	calloc := SynthCalloc(in)
	memcpy := SynthMemcpy(in)
	if calloc.ID != SentinelFuncID || memcpy.ID != SentinelFuncID {
		t.Fatalf("synthesized externs must share the sentinel id %d, got calloc=%d memcpy=%d",
			SentinelFuncID, calloc.ID, memcpy.ID)
	}
}
