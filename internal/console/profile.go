package console

import (
	"context"
	"math"
	"strconv"
	"strings"

	"finadvisor/internal/adapters/config"
)

// Need is the kind of help the user asked for.
type Need string

const (
	NeedStock   Need = "Stock advice"
	NeedFinance Need = "Financial/portfolio advice"
	NeedBoth    Need = "Both"
)

const defaultHorizonYears = 10

var (
	riskChoices   = []string{"Low", "Moderate", "High"}
	marketChoices = []string{"IN", "US"}
	needChoices   = []string{string(NeedStock), string(NeedFinance), string(NeedBoth)}
	taxChoices    = []string{"Unknown/NA", "Old", "New"}
)

// Profile holds the onboarding answers as typed by the user.
type Profile struct {
	Age             string
	Horizon         string
	Risk            string
	Market          string
	Goals           string
	Need            Need
	Symbol          string
	MonthlySavings  string
	EmergencyMonths string
	TaxRegime       string
}

// HorizonYears parses the horizon answer, falling back to 10 years when it
// is blank or not a number.
func (p Profile) HorizonYears() int {
	s := strings.TrimSpace(p.Horizon)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return defaultHorizonYears
}

// Onboard asks the personalisation questions. defaultMarket preselects the
// market choice.
func Onboard(ctx context.Context, p *Prompter, defaultMarket string) (Profile, error) {
	var (
		prof Profile
		err  error
	)

	ask := func(dst *string, prompt, def string) {
		if err == nil {
			*dst, err = p.Ask(ctx, prompt, def)
		}
	}
	choose := func(dst *string, prompt string, choices []string, def int) {
		if err == nil {
			*dst, err = p.AskChoice(ctx, prompt, choices, def)
		}
	}

	ask(&prof.Age, "Your age (e.g., 30): ", "")
	ask(&prof.Horizon, "Investment horizon in years (e.g., 10): ", "")
	choose(&prof.Risk, "Risk tolerance", riskChoices, 1)
	choose(&prof.Market, "Primary market", marketChoices, marketIndex(defaultMarket))
	ask(&prof.Goals, "Your key goal(s) (e.g., long-term growth, income, child education, retirement): ", "")

	var need string
	choose(&need, "What do you need help with right now?", needChoices, 2)
	prof.Need = Need(need)

	defaultSymbol := config.DefaultSymbolFor(prof.Market)
	ask(&prof.Symbol, "Ticker symbol (e.g., "+defaultSymbol+"): ", defaultSymbol)
	ask(&prof.MonthlySavings, "Approx monthly investable amount (e.g., 25000 INR): ", "")
	ask(&prof.EmergencyMonths, "Emergency fund in months of expenses (e.g., 6): ", "")
	choose(&prof.TaxRegime, "Tax regime (India)", taxChoices, 0)

	if err != nil {
		return Profile{}, err
	}

	prof.Symbol = strings.ToUpper(strings.TrimSpace(prof.Symbol))
	prof.Market = strings.ToUpper(prof.Market)
	return prof, nil
}

func marketIndex(market string) int {
	for i, m := range marketChoices {
		if strings.EqualFold(strings.TrimSpace(market), m) {
			return i
		}
	}
	return 0
}
