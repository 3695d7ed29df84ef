package server

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quickleads/lead-broker/internal/model"
)

// marketing is the presentation-layer copy attached to an estimate.
// None of it is contractual.
type marketing struct {
	Headline     string
	Subheadline  string
	NextSteps    string
	SocialProof  string
	TrustSignals []string
	Disclaimer   string
}

// printer renders dollar amounts with thousands separators.
var printer = message.NewPrinter(language.AmericanEnglish)

func marketingCopy(lead *model.Lead, buyerCount int) marketing {
	moveType := strings.ReplaceAll(string(lead.MoveType), "_", " ")
	return marketing{
		Headline: printer.Sprintf("Instant Estimate: $%.0f", lead.Estimate.Typical),
		Subheadline: printer.Sprintf("Typical cost for %s move (%.0f miles)",
			moveType, lead.DistanceMiles),
		NextSteps: printer.Sprintf(
			"%d licensed movers will contact you within 1 hour with exact quotes.",
			buyerCount),
		SocialProof: printer.Sprintf(
			"%d people got free estimates this week. %d top-rated movers available",
			30+rand.IntN(91), buyerCount),
		TrustSignals: []string{
			"100% free estimate service",
			printer.Sprintf("%d vetted movers compete for your business", buyerCount),
			"All movers licensed & insured",
			"Average 4.8 star rating",
		},
		Disclaimer: "This is an informational estimate only. Final pricing is determined by licensed moving companies.",
	}
}
