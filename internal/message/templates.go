package message

// Client-visible error template keys. The client renders the template; the
// raw key is never shown to the player and carries no server internals.
const (
	TemplateBadRequest           = "server.reject.badRequest"
	TemplateCouldNotHandle       = "server.reject.couldNotHandle"
	TemplateNoResponse           = "server.reject.noResponse"
	TemplateInternalError        = "server.reject.internalError"
	TemplateNotYourTurn          = "server.reject.notYourTurn"
	TemplateNotOwner             = "server.reject.notOwner"
	TemplateNotAdjacent          = "server.reject.notAdjacent"
	TemplateNoMoves              = "model.unit.noMoves"
	TemplateMoveBlocked          = "model.unit.moveBlocked"
	TemplateNotNaval             = "model.unit.notNaval"
	TemplateCargoFull            = "model.unit.cargoFull"
	TemplateInsufficientGoods    = "model.unit.insufficientGoodsPresent"
	TemplateInsufficientFunds    = "model.player.insufficientFunds"
	TemplateEuropeansWillNotSell = "model.player.land.europeansWillNotSell"
	TemplateTileOccupied         = "model.colony.tileOccupied"
	TemplateNotAtWar             = "model.player.notAtWar"
)
