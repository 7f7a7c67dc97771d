package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAML rule-set loading. The built-in tables from NewSpecification cover the
// standard rules; a rules file replaces them wholesale for modified games.

type goodsEntry struct {
	Id          string `yaml:"id"`
	NonStorable bool   `yaml:"non_storable"`
}

type unitEntry struct {
	Id        string `yaml:"id"`
	Movement  int    `yaml:"movement"`
	Naval     bool   `yaml:"naval"`
	CargoHold int    `yaml:"cargo_hold"`
}

type buildingEntry struct {
	Id        string `yaml:"id"`
	Workplace int    `yaml:"workplace"`
}

type rulesFile struct {
	Goods     []goodsEntry    `yaml:"goods"`
	Units     []unitEntry     `yaml:"units"`
	Buildings []buildingEntry `yaml:"buildings"`
}

// LoadSpecification loads the rule tables from a YAML rules file.
func LoadSpecification(path string) (*Specification, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Goods) == 0 || len(f.Units) == 0 {
		return nil, fmt.Errorf("rules %s: empty goods or unit table", path)
	}
	s := &Specification{
		goods:     make(map[string]*GoodsType, len(f.Goods)),
		units:     make(map[string]*UnitType, len(f.Units)),
		buildings: make(map[string]*BuildingType, len(f.Buildings)),
	}
	for _, e := range f.Goods {
		s.goods[e.Id] = &GoodsType{Id: e.Id, NonStorable: e.NonStorable}
	}
	for _, e := range f.Units {
		if e.Movement <= 0 {
			return nil, fmt.Errorf("rules %s: unit %s has no movement", path, e.Id)
		}
		s.units[e.Id] = &UnitType{
			Id:        e.Id,
			Movement:  e.Movement,
			Naval:     e.Naval,
			CargoHold: e.CargoHold,
		}
	}
	for _, e := range f.Buildings {
		s.buildings[e.Id] = &BuildingType{Id: e.Id, Workplace: e.Workplace}
	}
	return s, nil
}
