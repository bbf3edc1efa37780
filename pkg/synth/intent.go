package synth

import "strings"

// Intent is the query class driving template selection. Exactly one
// intent is produced per query; the match order below is the binding
// precedence.
type Intent int

const (
	IntentGreeting Intent = iota
	IntentThanks
	IntentDefinition
	IntentListTypes
	IntentHowTo
	IntentOptions
	IntentBenefits
	IntentSettlementRatio
	IntentContact
	IntentClaim
	IntentGeneric
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentThanks:
		return "thanks"
	case IntentDefinition:
		return "definition"
	case IntentListTypes:
		return "list-types"
	case IntentHowTo:
		return "how-to"
	case IntentOptions:
		return "options"
	case IntentBenefits:
		return "benefits"
	case IntentSettlementRatio:
		return "settlement-ratio"
	case IntentContact:
		return "contact"
	case IntentClaim:
		return "claim"
	default:
		return "generic"
	}
}

var greetingWords = map[string]bool{
	"hello":   true,
	"hi":      true,
	"hey":     true,
	"namaste": true,
}

// ClassifyIntent maps a query to its intent. Checks run in a fixed
// precedence order; the first hit wins.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, word := range strings.Fields(strings.Map(stripPunct, q)) {
		if greetingWords[word] {
			return IntentGreeting
		}
	}
	if strings.Contains(q, "thank") {
		return IntentThanks
	}

	switch {
	case strings.Contains(q, "what is"):
		return IntentDefinition
	case strings.Contains(q, "what are") || (strings.Contains(q, "what") && strings.Contains(q, "types")):
		return IntentListTypes
	case strings.Contains(q, "how to") || strings.Contains(q, "how do") || strings.Contains(q, "how can"):
		return IntentHowTo
	case strings.Contains(q, "types") || strings.Contains(q, "kinds") || strings.Contains(q, "options"):
		return IntentOptions
	case strings.Contains(q, "benefit") || strings.Contains(q, "advantage"):
		return IntentBenefits
	case strings.Contains(q, "settlement ratio") || (strings.Contains(q, "claim") && strings.Contains(q, "ratio")):
		return IntentSettlementRatio
	case strings.Contains(q, "contact") || strings.Contains(q, "helpline") || strings.Contains(q, "phone"):
		return IntentContact
	case strings.Contains(q, "claim"):
		return IntentClaim
	default:
		return IntentGeneric
	}
}

func stripPunct(r rune) rune {
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return ' '
	}
	return r
}

// template carries the lead-in phrase and the length budget that
// decides whether a second sentence still fits.
type template struct {
	lead   string
	budget int
}

func templateFor(intent Intent) template {
	switch intent {
	case IntentDefinition:
		return template{lead: "", budget: 280}
	case IntentListTypes, IntentOptions:
		return template{lead: "ICICI Insurance offers: ", budget: 300}
	case IntentHowTo:
		return template{lead: "Here's what you need to know: ", budget: 300}
	case IntentBenefits:
		return template{lead: "Key benefits include: ", budget: 300}
	case IntentContact:
		return template{lead: "You can reach ICICI Insurance as follows: ", budget: 320}
	case IntentClaim:
		return template{lead: "Regarding claims: ", budget: 300}
	default:
		return template{lead: "", budget: 280}
	}
}
