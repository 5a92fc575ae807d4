package ringbuf

import "testing"

type meta struct{ isKey bool }

func TestWriteAndGet(t *testing.T) {
	r := New[meta](16)
	id, err := r.Write([]byte("hello"), meta{isKey: true})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	item, ok := r.Get(id)
	if !ok {
		t.Fatalf("Get(%d) not found", id)
	}
	if string(item.Data) != "hello" || !item.Meta.isKey {
		t.Fatalf("Get(%d) = %+v", id, item)
	}
}

func TestWriteAppendsWithoutEviction(t *testing.T) {
	r := New[meta](32)
	id1, _ := r.Write([]byte("aaaa"), meta{})
	id2, _ := r.Write([]byte("bbbb"), meta{})
	if id2 != id1+1 {
		t.Fatalf("ids not sequential: %d, %d", id1, id2)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	min, max := r.IDBounds()
	if min != id1 || max != id2+1 {
		t.Fatalf("IDBounds() = (%d,%d), want (%d,%d)", min, max, id1, id2+1)
	}
}

func TestWriteEvictsOverlappingPrefix(t *testing.T) {
	r := New[meta](10)
	id1, _ := r.Write([]byte("12345"), meta{}) // [0,5)
	id2, _ := r.Write([]byte("678"), meta{})   // [5,8)
	// next write needs 5 bytes; remaining tail is 2 bytes (8..10), so it
	// wraps to 0 and overlaps id1's [0,5) range entirely, evicting it.
	id3, err := r.Write([]byte("ABCDE"), meta{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, ok := r.Get(id1); ok {
		t.Fatalf("id1 (%d) should have been evicted", id1)
	}
	if item, ok := r.Get(id2); !ok || string(item.Data) != "678" {
		t.Fatalf("id2 (%d) should survive, got ok=%v item=%+v", id2, ok, item)
	}
	if item, ok := r.Get(id3); !ok || string(item.Data) != "ABCDE" {
		t.Fatalf("id3 (%d) should be readable, got ok=%v item=%+v", id3, ok, item)
	}
}

func TestWriteDataTooLargeLeavesBufferUnchanged(t *testing.T) {
	r := New[meta](4)
	id1, _ := r.Write([]byte("ab"), meta{})

	_, err := r.Write([]byte("too long"), meta{})
	if err != ErrDataTooLarge {
		t.Fatalf("Write() err = %v, want ErrDataTooLarge", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d after rejected write, want 1", r.Len())
	}
	if item, ok := r.Get(id1); !ok || string(item.Data) != "ab" {
		t.Fatalf("original item disturbed by rejected write: ok=%v item=%+v", ok, item)
	}
}

func TestWriteExactlyCapacityEvictsEverything(t *testing.T) {
	r := New[meta](4)
	r.Write([]byte("ab"), meta{})
	id2, err := r.Write([]byte("WXYZ"), meta{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	item, _ := r.Get(id2)
	if string(item.Data) != "WXYZ" {
		t.Fatalf("Get(id2) = %+v", item)
	}
}

func TestIterReturnsItemsOldestFirst(t *testing.T) {
	r := New[meta](32)
	want := []string{"a", "bb", "ccc"}
	for _, s := range want {
		r.Write([]byte(s), meta{})
	}
	var got []string
	r.Iter(func(it Item[meta]) bool {
		got = append(got, string(it.Data))
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("Iter produced %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Iter()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGrowableDumpIntoPreservesOrderThenClears(t *testing.T) {
	g := NewGrowable[meta]()
	g.Write([]byte("one"), meta{})
	g.Write([]byte("two"), meta{})
	g.Write([]byte("three"), meta{})

	r := New[meta](64)
	if err := g.DumpInto(r); err != nil {
		t.Fatalf("DumpInto: %v", err)
	}
	if !g.IsEmpty() {
		t.Fatalf("staging buffer not cleared after dump")
	}

	var got []string
	r.Iter(func(it Item[meta]) bool {
		got = append(got, string(it.Data))
		return true
	})
	want := []string{"one", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ring[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGrowableDumpIntoRejectsOversizedItemWithoutClearing(t *testing.T) {
	g := NewGrowable[meta]()
	g.Write([]byte("fits"), meta{})
	g.Write([]byte("does-not-fit-at-all"), meta{})

	r := New[meta](8)
	if err := g.DumpInto(r); err != ErrDataTooLarge {
		t.Fatalf("DumpInto err = %v, want ErrDataTooLarge", err)
	}
	if g.IsEmpty() {
		t.Fatalf("staging buffer cleared despite rejected dump")
	}
}
