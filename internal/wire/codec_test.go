package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDeterministic(t *testing.T) {
	f := New("Update", "b", "2", "a", "1").
		Append(New("unit", "id", "unit:1"), New("tile", "id", "tile:9"))
	first := Encode(f)
	second := Encode(f)
	if !bytes.Equal(first, second) {
		t.Fatalf("encode not deterministic: %q vs %q", first, second)
	}
	want := `<Update b="2" a="1"><unit id="unit:1"/><tile id="tile:9"/></Update>`
	if string(first) != want {
		t.Fatalf("encoded %q, want %q", first, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	f := New("Multiple", "turn", "3").
		Append(
			New("AnimateMove", "unit", "unit:1", "oldTile", "tile:1", "newTile", "tile:2"),
			New("Remove", "divert", "tile:1").Append(New("unit", "id", "unit:4")),
		)
	got, err := Decode(Encode(f))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(Encode(got), Encode(f)) {
		t.Fatalf("round trip mismatch: %q vs %q", Encode(got), Encode(f))
	}
}

func TestDecodeEscapedAttributes(t *testing.T) {
	f := New("Chat", "message", `he said "go <home>" & left`)
	got, err := Decode(Encode(f))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Get("message") != f.Get("message") {
		t.Fatalf("attribute mangled: %q", got.Get("message"))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not xml", "<unclosed", "<a><b></a></b>"} {
		if _, err := Decode([]byte(bad)); err == nil {
			t.Fatalf("expected decode error for %q", bad)
		}
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	f := New("Update", "a", "1", "b", "2")
	f.Set("a", "9")
	attrs := f.Attrs()
	if len(attrs) != 2 || attrs[0].Key != "a" || attrs[0].Value != "9" {
		t.Fatalf("replace moved or duplicated attribute: %v", attrs)
	}
}

func TestSameShape(t *testing.T) {
	a := New("Update", "k", "v").Append(New("unit", "id", "unit:1"))
	b := New("Update", "k", "v").Append(New("unit", "id", "unit:2"))
	if !a.SameShape(b) {
		t.Fatal("same tag and attrs should be same shape regardless of children")
	}
	c := New("Update", "k", "other")
	if a.SameShape(c) {
		t.Fatal("different attribute values must not be same shape")
	}
	d := New("Remove", "k", "v")
	if a.SameShape(d) {
		t.Fatal("different tags must not be same shape")
	}
}

func TestArrayAttributes(t *testing.T) {
	f := New("SetBuildQueue", "colony", "settlement:1").
		SetArray([]string{"model.building.church", "model.unit.wagonTrain"})
	got, err := Decode(Encode(f))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	arr := got.GetArray()
	if len(arr) != 2 || arr[0] != "model.building.church" || arr[1] != "model.unit.wagonTrain" {
		t.Fatalf("array round trip failed: %v", arr)
	}
	if New("x").GetArray() != nil {
		t.Fatal("fragment without arraySize should have nil array")
	}
}

func TestGetIntAndBoolDefaults(t *testing.T) {
	f := New("m", "n", "12", "b", "true", "junk", "zzz")
	if f.GetInt("n", -1) != 12 || f.GetInt("absent", -1) != -1 || f.GetInt("junk", 7) != 7 {
		t.Fatal("GetInt defaults wrong")
	}
	if !f.GetBool("b", false) || f.GetBool("absent", true) != true || f.GetBool("junk", false) != false {
		t.Fatal("GetBool defaults wrong")
	}
}
