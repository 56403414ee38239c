package cache

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	unitHash := sha256.Sum256([]byte("unit"))
	compHash := sha256.Sum256([]byte("compiler"))
	flags := FlagSet{OLevel: 2}
	a := Key(unitHash, compHash, flags)
	b := Key(unitHash, compHash, flags)
	if a != b {
		t.Fatal("Key must be deterministic for identical inputs")
	}
}

func TestKeySensitiveToOLevel(t *testing.T) {
	unitHash := sha256.Sum256([]byte("unit"))
	compHash := sha256.Sum256([]byte("compiler"))
	a := Key(unitHash, compHash, FlagSet{OLevel: 2})
	b := Key(unitHash, compHash, FlagSet{OLevel: 3})
	if a == b {
		t.Fatal("different OLevel must change the cache key")
	}
}

func TestKeySensitiveToLinkObjContent(t *testing.T) {
	unitHash := sha256.Sum256([]byte("unit"))
	compHash := sha256.Sum256([]byte("compiler"))
	a := Key(unitHash, compHash, FlagSet{LinkObjHashes: map[string][32]byte{"a.o": sha256.Sum256([]byte("1"))}})
	b := Key(unitHash, compHash, FlagSet{LinkObjHashes: map[string][32]byte{"a.o": sha256.Sum256([]byte("2"))}})
	if a == b {
		t.Fatal("changing a link object's content must change the cache key")
	}
}

func TestFlagSetBytesStableAcrossMapOrder(t *testing.T) {
	fs := FlagSet{LinkObjHashes: map[string][32]byte{
		"z.o": sha256.Sum256([]byte("z")),
		"a.o": sha256.Sum256([]byte("a")),
	}}
	b1 := fs.Bytes()
	b2 := fs.Bytes()
	if string(b1) != string(b2) {
		t.Fatal("FlagSet.Bytes must be deterministic regardless of map iteration order")
	}
}

func TestRoundTripStoreThenLoad(t *testing.T) {
	root := t.TempDir()
	c := Cache{Root: root, Enabled: true}

	srcDir := t.TempDir()
	outPath := filepath.Join(srcDir, "out")
	if err := os.WriteFile(outPath, []byte("binary-contents"), 0o755); err != nil {
		t.Fatal(err)
	}

	unitHash := sha256.Sum256([]byte("unit"))
	compHash := sha256.Sum256([]byte("compiler"))
	key := Key(unitHash, compHash, FlagSet{})

	c.Store(key, outPath, "")

	destPath := filepath.Join(t.TempDir(), "restored")
	hit, err := c.Load(key, destPath, "")
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("expected a cache hit after Store")
	}
	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "binary-contents" {
		t.Fatalf("got %q, want binary-contents", got)
	}
}

func TestLoadMissWhenDisabled(t *testing.T) {
	c := Cache{Root: t.TempDir(), Enabled: false}
	hit, err := c.Load("deadbeef", "/tmp/whatever", "")
	if err != nil || hit {
		t.Fatal("disabled cache must never report a hit")
	}
}

func TestEnvOnOffSemantics(t *testing.T) {
	lookup := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	c := FromEnv(lookup(map[string]string{"CACHE": "1"}))
	if !c.Enabled {
		t.Fatal("CACHE=1 should enable the cache")
	}
	c = FromEnv(lookup(map[string]string{"CACHE": "0"}))
	if c.Enabled {
		t.Fatal("CACHE=0 should disable the cache")
	}
	c = FromEnv(lookup(map[string]string{}))
	if c.Enabled {
		t.Fatal("unset CACHE should disable the cache")
	}
}
