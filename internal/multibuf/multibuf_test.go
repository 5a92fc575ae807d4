package multibuf

import "testing"

func TestSwapExchangesValues(t *testing.T) {
	mb := New[[]byte]()
	*mb.BackMut() = []byte("first")
	mb.Swap()

	var got []byte
	mb.Front(func(v *[]byte) { got = append([]byte(nil), *v...) })
	if string(got) != "first" {
		t.Fatalf("front = %q, want %q", got, "first")
	}

	*mb.BackMut() = []byte("second")
	mb.Swap()
	mb.Front(func(v *[]byte) { got = append([]byte(nil), *v...) })
	if string(got) != "second" {
		t.Fatalf("front = %q, want %q", got, "second")
	}
}

func TestFrontIfNewerReportsFreshness(t *testing.T) {
	mb := New[int]()
	*mb.BackMut() = 1
	mb.Swap()

	seen, ok := mb.FrontIfNewer(0, func(v *int) {})
	if !ok {
		t.Fatal("expected a new version after first swap")
	}

	if _, ok := mb.FrontIfNewer(seen, func(v *int) {}); ok {
		t.Fatal("expected no new version without an intervening swap")
	}

	*mb.BackMut() = 2
	mb.Swap()
	var got int
	if _, ok := mb.FrontIfNewer(seen, func(v *int) { got = *v }); !ok || got != 2 {
		t.Fatalf("FrontIfNewer after second swap: ok=%v got=%d", ok, got)
	}
}

func TestViewSeesSwaps(t *testing.T) {
	mb := New[int]()
	view := mb.View()

	*mb.BackMut() = 42
	mb.Swap()

	var got int
	view.Get(func(v *int) { got = *v })
	if got != 42 {
		t.Fatalf("view front = %d, want 42", got)
	}
}
