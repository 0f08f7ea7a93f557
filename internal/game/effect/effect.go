// Package effect parses the compact "use effect" mini-language carried on
// consumable items.
//
// Grammar: a ";"-delimited token list. The first token (trimmed) is the
// effect type tag; it must be non-empty. Each later token containing "=" is
// split on the first "=" into a trimmed key and value; tokens without "="
// are silently ignored. There is no escaping, quoting, or type coercion:
// every parameter value stays a string and callers interpret it.
package effect

import "strings"

// Kind is the closed set of effect types the resolver dispatches on.
// Tags outside this set parse as KindUnknown; the raw tag is preserved on
// the ParsedEffect for auditing.
type Kind string

const (
	// KindAdvantageNextRoll grants advantage on the character's next roll.
	KindAdvantageNextRoll Kind = "ADVANTAGE_NEXT_ROLL"
	// KindRevealClue asks the master to reveal a clue to everyone.
	KindRevealClue Kind = "REVEAL_CLUE"
	// KindResist grants scene-long resistance to a damage or fear type.
	KindResist Kind = "RESIST"
	// KindDebuffTarget marks a target with a negative effect (master adjudicated).
	KindDebuffTarget Kind = "DEBUFF_TARGET"
	// KindEscapeWindow opens a scene-long escape opportunity.
	KindEscapeWindow Kind = "ESCAPE_WINDOW"
	// KindSignalPing sends a signal for the master to answer.
	KindSignalPing Kind = "SIGNAL_PING"
	// KindUnknown is any tag outside the recognised set.
	KindUnknown Kind = ""
)

var knownKinds = map[string]Kind{
	string(KindAdvantageNextRoll): KindAdvantageNextRoll,
	string(KindRevealClue):        KindRevealClue,
	string(KindResist):            KindResist,
	string(KindDebuffTarget):      KindDebuffTarget,
	string(KindEscapeWindow):      KindEscapeWindow,
	string(KindSignalPing):        KindSignalPing,
}

// KindOf maps a raw tag to its Kind, or KindUnknown for unrecognised tags.
func KindOf(tag string) Kind {
	if k, ok := knownKinds[tag]; ok {
		return k
	}
	return KindUnknown
}

// ParsedEffect is a typed use-effect instruction.
type ParsedEffect struct {
	// Kind is the dispatch tag; KindUnknown for unrecognised types.
	Kind Kind
	// Tag is the raw type token exactly as written on the item.
	Tag string
	// Params holds the key=value parameters; values are uninterpreted strings.
	Params map[string]string
}

// Parse parses a raw use-effect string.
//
// Postcondition: returns nil for empty or whitespace-only input, or input
// whose first token trims to nothing; otherwise returns a ParsedEffect with
// a non-empty Tag and a non-nil Params map. Parse never panics.
func Parse(raw string) *ParsedEffect {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ";")
	tag := strings.TrimSpace(parts[0])
	if tag == "" {
		return nil
	}

	params := make(map[string]string)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, "=") {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	return &ParsedEffect{Kind: KindOf(tag), Tag: tag, Params: params}
}

// descriptions maps effect tags to display text. Presentation data only.
var descriptions = map[string]string{
	string(KindAdvantageNextRoll): "Grants advantage on the next roll",
	string(KindRevealClue):        "Reveals a clue from the master",
	string(KindResist):            "Grants resistance to a negative effect",
	string(KindDebuffTarget):      "Inflicts a negative effect on a target",
	string(KindEscapeWindow):      "Opens a window to escape",
	string(KindSignalPing):        "Sends a signal to the master",
}

// Describe returns display text for an effect tag, falling back to a generic
// description for unknown tags.
func Describe(tag string) string {
	if d, ok := descriptions[tag]; ok {
		return d
	}
	return "Unknown effect"
}
