package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeDiceParseFailed      = "DICE_PARSE_FAILED"
	CodeDiceEvaluationHalted = "DICE_EVALUATION_HALTED"
	CodeDiceEvaluationFailed = "DICE_EVALUATION_FAILED"
	CodeTicketUnknown        = "TICKET_UNKNOWN"
	CodeTicketPending        = "TICKET_PENDING"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeDiceParseFailed:      "Could not read {{.Source}}: {{.Reason}}",
		CodeDiceEvaluationHalted: "Rolling {{.Source}} was stopped before it finished",
		CodeDiceEvaluationFailed: "Rolling {{.Source}} failed",
		CodeTicketUnknown:        "Roll {{.Ticket}} does not exist or was already collected",
		CodeTicketPending:        "Roll {{.Ticket}} is not finished yet",
	},
}

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeDiceParseFailed:      "Não foi possível ler {{.Source}}: {{.Reason}}",
		CodeDiceEvaluationHalted: "A rolagem de {{.Source}} foi interrompida antes de terminar",
		CodeDiceEvaluationFailed: "A rolagem de {{.Source}} falhou",
		CodeTicketUnknown:        "A rolagem {{.Ticket}} não existe ou já foi recolhida",
		CodeTicketPending:        "A rolagem {{.Ticket}} ainda não terminou",
	},
}
