package landscape

import "testing"

func TestHeightFieldAbsoluteAndBack(t *testing.T) {
	h := NewHeightField()
	h.Offset = 100
	h.Deltas[0][1] = 2 // +16 along row 0
	h.Deltas[1][0] = -1
	h.Deltas[1][1] = 3

	abs := h.Absolute()
	if abs[0][0] != 100 {
		t.Fatalf("abs[0][0] = %v, want 100", abs[0][0])
	}
	if abs[0][1] != 100+2*HeightScale {
		t.Fatalf("abs[0][1] = %v, want %v", abs[0][1], 100+2*HeightScale)
	}
	if abs[1][0] != 100-1*HeightScale {
		t.Fatalf("abs[1][0] = %v, want %v", abs[1][0], 100-1*HeightScale)
	}

	back := HeightFieldFromAbsolute(abs, h.Offset)
	if back.Deltas[0][1] != h.Deltas[0][1] {
		t.Fatalf("round-trip delta[0][1] = %v, want %v", back.Deltas[0][1], h.Deltas[0][1])
	}
	if back.Deltas[1][0] != h.Deltas[1][0] {
		t.Fatalf("round-trip delta[1][0] = %v, want %v", back.Deltas[1][0], h.Deltas[1][0])
	}
}

func TestRoundDeltaClamps(t *testing.T) {
	if got := roundDelta(1000); got != 127 {
		t.Fatalf("roundDelta(1000) = %d, want 127", got)
	}
	if got := roundDelta(-1000); got != -128 {
		t.Fatalf("roundDelta(-1000) = %d, want -128", got)
	}
}

func TestTextureTableInsertAndFreeze(t *testing.T) {
	tbl := NewTextureTable()
	id1, err := tbl.Insert(CanonicalKey{Filename: "tx_rock.tga"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id1 != 1 {
		t.Fatalf("first id = %d, want 1", id1)
	}

	id2, err := tbl.Insert(CanonicalKey{Filename: "tx_rock.tga"})
	if err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("re-insert of same key should return same id, got %d and %d", id1, id2)
	}

	tbl.Freeze()
	if _, err := tbl.Insert(CanonicalKey{Filename: "tx_new.tga"}); err != ErrTableFrozen {
		t.Fatalf("insert after freeze: got %v, want ErrTableFrozen", err)
	}
	if !tbl.Contains(id1) {
		t.Fatal("table should contain id1")
	}
	if !tbl.Contains(DefaultTextureID) {
		t.Fatal("table should always contain DefaultTextureID")
	}
}
