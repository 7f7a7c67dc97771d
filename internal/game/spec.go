package game

// Static rule tables. The full game loads these from rule-set files; the
// server core only needs lookup by identifier, so the tables are built
// in-memory at boot.

// GoodsType describes one tradeable goods kind.
type GoodsType struct {
	Id          string
	NonStorable bool // virtual goods (bells, crosses)
}

func (g *GoodsType) Storable() bool { return !g.NonStorable }

// UnitType describes one unit kind.
type UnitType struct {
	Id        string
	Movement  int // movement points per turn
	Naval     bool
	CargoHold int // cargo slots; 0 = cannot carry
}

// BuildingType describes one settlement building kind.
type BuildingType struct {
	Id        string
	Workplace int // worker slots
}

// Specification holds the rule tables consulted during validation.
type Specification struct {
	goods     map[string]*GoodsType
	units     map[string]*UnitType
	buildings map[string]*BuildingType
}

// NewSpecification builds the default rule tables.
func NewSpecification() *Specification {
	s := &Specification{
		goods:     make(map[string]*GoodsType),
		units:     make(map[string]*UnitType),
		buildings: make(map[string]*BuildingType),
	}
	for _, g := range []*GoodsType{
		{Id: "model.goods.food"},
		{Id: "model.goods.lumber"},
		{Id: "model.goods.furs"},
		{Id: "model.goods.tobacco"},
		{Id: "model.goods.cotton"},
		{Id: "model.goods.sugar"},
		{Id: "model.goods.ore"},
		{Id: "model.goods.silver"},
		{Id: "model.goods.horses"},
		{Id: "model.goods.tools"},
		{Id: "model.goods.muskets"},
		{Id: "model.goods.tradeGoods"},
		{Id: "model.goods.bells", NonStorable: true},
		{Id: "model.goods.crosses", NonStorable: true},
	} {
		s.goods[g.Id] = g
	}
	for _, u := range []*UnitType{
		{Id: "model.unit.freeColonist", Movement: 3},
		{Id: "model.unit.expertFarmer", Movement: 3},
		{Id: "model.unit.hardyPioneer", Movement: 3},
		{Id: "model.unit.veteranSoldier", Movement: 3},
		{Id: "model.unit.scout", Movement: 12},
		{Id: "model.unit.dragoon", Movement: 12},
		{Id: "model.unit.artillery", Movement: 3},
		{Id: "model.unit.wagonTrain", Movement: 6, CargoHold: 2},
		{Id: "model.unit.caravel", Movement: 6, Naval: true, CargoHold: 2},
		{Id: "model.unit.merchantman", Movement: 9, Naval: true, CargoHold: 4},
		{Id: "model.unit.galleon", Movement: 18, Naval: true, CargoHold: 6},
		{Id: "model.unit.frigate", Movement: 18, Naval: true, CargoHold: 4},
		{Id: "model.unit.brave", Movement: 3},
	} {
		s.units[u.Id] = u
	}
	for _, b := range []*BuildingType{
		{Id: "model.building.townHall", Workplace: 3},
		{Id: "model.building.carpenterHouse", Workplace: 3},
		{Id: "model.building.blacksmithHouse", Workplace: 3},
		{Id: "model.building.church", Workplace: 3},
	} {
		s.buildings[b.Id] = b
	}
	return s
}

// GetGoodsType returns the goods type for id, or nil.
func (s *Specification) GetGoodsType(id string) *GoodsType { return s.goods[id] }

// GetUnitType returns the unit type for id, or nil.
func (s *Specification) GetUnitType(id string) *UnitType { return s.units[id] }

// GetBuildingType returns the building type for id, or nil.
func (s *Specification) GetBuildingType(id string) *BuildingType { return s.buildings[id] }
