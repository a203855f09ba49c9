package chat

import (
	"regexp"
	"strings"
)

// Intent is the action selected for a chat message
type Intent int

const (
	IntentHelp Intent = iota
	IntentGreeting
	IntentShowInvoice
	IntentSummarizeInvoice
	IntentListInvoices
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentShowInvoice:
		return "show_invoice"
	case IntentSummarizeInvoice:
		return "summarize_invoice"
	case IntentListInvoices:
		return "list_invoices"
	default:
		return "help"
	}
}

// Match is the result of classifying a message. Ref is the invoice number
// extracted for the show and summarize intents, empty when none was given.
type Match struct {
	Intent Intent
	Ref    string
}

var (
	greetingPattern  = regexp.MustCompile(`(?i)^(hi|hello|hey|greetings|good (morning|afternoon|evening))$`)
	showPattern      = regexp.MustCompile(`(?i)(?:show|get)(?:\s+me)?(?:\s+invoice)?\s+#?(?:inv-)?(\d+)`)
	summarizePattern = regexp.MustCompile(`(?i)summarize(?:\s+invoice)?\s+#?(?:inv-)?(\d+)`)
)

type rule struct {
	intent  Intent
	matches func(msg string) bool
	ref     *regexp.Regexp
}

func containsAny(phrases ...string) func(string) bool {
	return func(msg string) bool {
		for _, p := range phrases {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

// Evaluated top-down, first match wins.
var rules = []rule{
	{intent: IntentGreeting, matches: greetingPattern.MatchString},
	{intent: IntentShowInvoice, matches: containsAny("show me invoice", "get invoice"), ref: showPattern},
	{intent: IntentSummarizeInvoice, matches: containsAny("summarize invoice"), ref: summarizePattern},
	{intent: IntentListInvoices, matches: containsAny("list all invoices", "show all invoices")},
}

// Classify maps a user message to an intent. Matching is case-insensitive.
func Classify(message string) Match {
	msg := strings.ToLower(message)

	for _, r := range rules {
		if !r.matches(msg) {
			continue
		}
		m := Match{Intent: r.intent}
		if r.ref != nil {
			if sub := r.ref.FindStringSubmatch(msg); sub != nil {
				m.Ref = sub[1]
			}
		}
		return m
	}

	return Match{Intent: IntentHelp}
}
