package instrument

import "testing"

func TestKindIsAvailable(t *testing.T) {
	for k := _kind_beg + 1; k < _kind_end; k++ {
		if !k.IsAvailable() {
			t.Fatalf("kind %v should be available", k)
		}
		if k.String() == "unknown" {
			t.Fatalf("kind %d has no string form", k)
		}
	}
	if _kind_beg.IsAvailable() || _kind_end.IsAvailable() {
		t.Fatal("sentinel kinds must not be available")
	}
}

func TestKindIsOption(t *testing.T) {
	options := map[Kind]bool{
		KindOption:       true,
		KindFutureOption: true,
		KindIndexOption:  true,
	}
	for k := _kind_beg + 1; k < _kind_end; k++ {
		if k.IsOption() != options[k] {
			t.Fatalf("IsOption(%v) = %v, want %v", k, k.IsOption(), options[k])
		}
	}
}
