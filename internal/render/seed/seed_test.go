package seed

import "testing"

func TestHash32KnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
	}
	for _, tc := range cases {
		if got := Hash32(tc.in); got != tc.want {
			t.Fatalf("Hash32(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHash32SurrogatePairs(t *testing.T) {
	// Astral-plane characters hash over their UTF-16 code units, not runes.
	if Hash32("😀") == Hash32(string(rune(0x1F600+1))) {
		t.Fatal("expected distinct hashes for distinct emoji")
	}
	if got := Hash32("😀"); got == 0 {
		t.Fatal("expected non-zero hash for emoji")
	}
}

func TestSequenceDeterminism(t *testing.T) {
	a := New("octocat_village")
	b := New("octocat_village")
	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of range: %v", i, va)
		}
	}
}

func TestSequenceSeedSensitivity(t *testing.T) {
	a := New("octocat_village")
	b := New("octocat_chars")
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different suffixes to decorrelate the streams")
	}
}

func TestIntnBounds(t *testing.T) {
	rng := New("bounds")
	for i := 0; i < 1000; i++ {
		v := rng.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d out of range", v)
		}
	}
}
