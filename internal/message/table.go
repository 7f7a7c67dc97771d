package message

// registerAll installs the full message table. The table is closed and
// hand-maintained: an unregistered tag is a hard parse failure, never a
// silent skip. Tags with dedicated types get their constructors; the many
// attribute-only requests share the generic constructor with their required
// attributes declared; object-tree payloads use the fragment constructor.
func registerAll(r *Registry) {
	// Core game actions with dedicated handlers.
	r.Register(TagClaimLand, func() Message { return &ClaimLand{} })
	r.Register(TagLoadGoods, func() Message { return &LoadGoods{} })
	r.Register(TagUnloadGoods, func() Message { return &UnloadGoods{} })
	r.Register(TagMove, func() Message { return &Move{} })
	r.Register(TagAttack, func() Message { return &Attack{} })
	r.Register(TagBuildColony, func() Message { return &BuildColony{} })
	r.Register(TagChangeState, func() Message { return &ChangeState{} })
	r.Register(TagEmbark, func() Message { return &Embark{} })
	r.Register(TagDisembark, func() Message { return &Disembark{} })
	r.Register(TagDisbandUnit, func() Message { return &DisbandUnit{} })
	r.Register(TagSpySettlement, func() Message { return &SpySettlement{} })
	r.Register(TagSetStance, func() Message { return &SetStance{} })
	r.Register(TagEndTurn, func() Message { return &EndTurn{} })
	r.Register(TagChat, func() Message { return &Chat{} })
	r.Register(TagLogout, func() Message { return &Logout{} })

	// Server-to-client pushes.
	r.Register(TagError, func() Message { return &Error{} })
	r.Register(TagUpdate, fragmentCtor(TagUpdate))
	r.Register(TagRemove, fragmentCtor(TagRemove))
	r.Register(TagMultiple, fragmentCtor(TagMultiple))
	r.Register(TagAnimateMove, fragmentCtor(TagAnimateMove))
	r.Register(TagAnimateAttack, fragmentCtor(TagAnimateAttack))
	r.Register(TagAddPlayer, fragmentCtor(TagAddPlayer))
	r.Register(TagFeatureChange, fragmentCtor(TagFeatureChange))
	r.Register(TagSpyResult, fragmentCtor(TagSpyResult))
	r.Register(TagSetCurrentPlayer, attributeCtor(TagSetCurrentPlayer, "player"))
	r.Register(TagNewTurn, attributeCtor(TagNewTurn, "turn"))
	r.Register(TagSetDead, attributeCtor(TagSetDead, "player"))
	r.Register(TagGameEnded, attributeCtor(TagGameEnded))

	// Session and meta traffic.
	r.Register("Login", fragmentCtor("Login"))
	r.Register("LoginResult", fragmentCtor("LoginResult"))
	r.Register("Disconnect", attributeCtor("Disconnect"))
	r.Register("Reconnect", attributeCtor("Reconnect"))
	r.Register("Ready", attributeCtor("Ready", "player"))
	r.Register("CloseMenus", attributeCtor("CloseMenus"))
	r.Register("ContinuePlaying", attributeCtor("ContinuePlaying"))
	r.Register("Retire", attributeCtor("Retire"))
	r.Register("ServerStatistics", attributeCtor("ServerStatistics"))

	// Colony management.
	r.Register("AbandonColony", attributeCtor("AbandonColony", "colony"))
	r.Register("JoinColony", attributeCtor("JoinColony", "unit", "colony"))
	r.Register("PutOutsideColony", attributeCtor("PutOutsideColony", "unit"))
	r.Register("SetBuildQueue", attributeCtor("SetBuildQueue", "colony"))
	r.Register("PayForBuilding", attributeCtor("PayForBuilding", "colony"))
	r.Register("SetGoodsLevels", attributeCtor("SetGoodsLevels", "colony", "goodsType"))
	r.Register("Rename", attributeCtor("Rename", "object", "name"))
	r.Register("WorkImprovement", attributeCtor("WorkImprovement", "unit", "improvementType"))
	r.Register("ChangeWorkType", attributeCtor("ChangeWorkType", "unit", "workType"))
	r.Register("ChangeWorkImprovementType", attributeCtor("ChangeWorkImprovementType", "unit", "improvementType"))

	// Unit management.
	r.Register("MoveTo", attributeCtor("MoveTo", "unit", "destination"))
	r.Register("SetDestination", attributeCtor("SetDestination", "unit"))
	r.Register("ClearSpeciality", attributeCtor("ClearSpeciality", "unit"))
	r.Register("EquipForRole", attributeCtor("EquipForRole", "unit", "role"))
	r.Register("CashInTreasureTrain", attributeCtor("CashInTreasureTrain", "unit"))
	r.Register("LootCargo", attributeCtor("LootCargo", "winner", "loser"))
	r.Register("AssignTeacher", attributeCtor("AssignTeacher", "student", "teacher"))
	r.Register("AssignTradeRoute", attributeCtor("AssignTradeRoute", "unit"))
	r.Register("SetTradeRoutes", fragmentCtor("SetTradeRoutes"))
	r.Register("UpdateTradeRoute", fragmentCtor("UpdateTradeRoute"))

	// Europe and emigration.
	r.Register("EmbarkToEurope", attributeCtor("EmbarkToEurope", "unit"))
	r.Register("Emigrate", attributeCtor("Emigrate", "slot"))
	r.Register("TrainUnitInEurope", attributeCtor("TrainUnitInEurope", "unitType"))
	r.Register("PurchaseUnitFromEurope", attributeCtor("PurchaseUnitFromEurope", "unitType"))
	r.Register("PayArrears", attributeCtor("PayArrears", "goodsType"))
	r.Register("SellGoods", attributeCtor("SellGoods", "type", "amount", "carrier"))
	r.Register("BuyGoods", attributeCtor("BuyGoods", "type", "amount", "carrier"))

	// Natives and diplomacy.
	r.Register(TagDiplomacy, fragmentCtor(TagDiplomacy))
	r.Register("FirstContact", attributeCtor("FirstContact", "player", "other"))
	r.Register("NativeGift", attributeCtor("NativeGift", "unit", "colony"))
	r.Register("NativeTrade", fragmentCtor("NativeTrade"))
	r.Register("DeliverGift", attributeCtor("DeliverGift", "unit", "settlement"))
	r.Register("IndianDemand", attributeCtor("IndianDemand", "unit", "colony"))
	r.Register("Incite", attributeCtor("Incite", "unit", "settlement", "enemy"))
	r.Register("Missionary", attributeCtor("Missionary", "unit", "settlement"))
	r.Register("ScoutSpeakToChief", attributeCtor("ScoutSpeakToChief", "unit", "settlement"))
	r.Register("LearnSkill", attributeCtor("LearnSkill", "unit", "settlement"))
	r.Register("AskSkill", attributeCtor("AskSkill", "unit", "settlement"))
	r.Register("GetNationSummary", attributeCtor("GetNationSummary", "player"))
	r.Register("NationSummary", fragmentCtor("NationSummary"))

	// Founding fathers, monarch, independence.
	r.Register("ChooseFoundingFather", attributeCtor("ChooseFoundingFather", "foundingFather"))
	r.Register("Monarch", fragmentCtor("Monarch"))
	r.Register("MonarchAction", attributeCtor("MonarchAction", "action"))
	r.Register("DeclareIndependence", attributeCtor("DeclareIndependence", "nationName", "countryName"))

	// Map and naming.
	r.Register("NewLandName", attributeCtor("NewLandName", "unit", "newLandName"))
	r.Register("NewRegionName", attributeCtor("NewRegionName", "region", "newRegionName"))
	r.Register("HighScore", attributeCtor("HighScore"))

	// Pre-game setup.
	r.Register("SetNation", attributeCtor("SetNation", "player", "value"))
	r.Register("SetNationType", attributeCtor("SetNationType", "player", "value"))
	r.Register("SetColor", attributeCtor("SetColor", "player", "value"))
	r.Register("SetAvailable", attributeCtor("SetAvailable", "nation", "state"))
	r.Register("UpdateGameOptions", fragmentCtor("UpdateGameOptions"))
	r.Register("UpdateMapGenerationOptions", fragmentCtor("UpdateMapGenerationOptions"))
	r.Register("RequestLaunch", attributeCtor("RequestLaunch"))
	r.Register("StartGame", attributeCtor("StartGame"))
}
