package game

import (
	"os"
	"path/filepath"
	"testing"
)

const testRules = `
goods:
  - id: model.goods.lumber
  - id: model.goods.bells
    non_storable: true
units:
  - id: model.unit.freeColonist
    movement: 3
  - id: model.unit.caravel
    movement: 6
    naval: true
    cargo_hold: 2
buildings:
  - id: model.building.townHall
    workplace: 3
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestLoadSpecification(t *testing.T) {
	spec, err := LoadSpecification(writeRules(t, testRules))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	caravel := spec.GetUnitType("model.unit.caravel")
	if caravel == nil || !caravel.Naval || caravel.CargoHold != 2 || caravel.Movement != 6 {
		t.Fatalf("caravel not loaded: %+v", caravel)
	}
	if spec.GetGoodsType("model.goods.lumber") == nil {
		t.Fatal("lumber not loaded")
	}
	if spec.GetGoodsType("model.goods.bells").Storable() {
		t.Fatal("bells must be non-storable")
	}
	if spec.GetBuildingType("model.building.townHall").Workplace != 3 {
		t.Fatal("town hall not loaded")
	}
	if spec.GetUnitType("model.unit.frigate") != nil {
		t.Fatal("rules file must replace the built-in tables, not merge")
	}
}

func TestLoadSpecificationRejectsBadRules(t *testing.T) {
	if _, err := LoadSpecification(writeRules(t, "goods: []\nunits: []\n")); err == nil {
		t.Fatal("empty tables should be rejected")
	}
	if _, err := LoadSpecification(writeRules(t, "units: [not a mapping")); err == nil {
		t.Fatal("malformed yaml should be rejected")
	}
	zeroMove := `
goods:
  - id: model.goods.lumber
units:
  - id: model.unit.freeColonist
`
	if _, err := LoadSpecification(writeRules(t, zeroMove)); err == nil {
		t.Fatal("unit without movement should be rejected")
	}
	if _, err := LoadSpecification(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should be reported")
	}
}
