package explain

import (
	"fmt"
	"strings"

	domsvc "StockPulse/internal/domain/service"
)

// BuildPrompt renders the analyst prompt sent to the explanation delegate.
// The delegate is asked to answer with a JSON object holding summary,
// keyFactors, risks and opportunities.
func BuildPrompt(pc domsvc.PromptContext) string {
	var sb strings.Builder

	name := pc.Name
	if name == "" {
		name = pc.Symbol
	}

	fmt.Fprintf(&sb, "As a financial analyst, provide a concise explanation for the stock prediction of %s (%s).\n\n", pc.Symbol, name)
	fmt.Fprintf(&sb, "Current Price: $%.2f\n", pc.CurrentPrice)
	fmt.Fprintf(&sb, "Predicted Next Day: $%.2f (%s)\n", pc.Forecasts.NextDay.Price, pc.Forecasts.NextDay.Direction)
	fmt.Fprintf(&sb, "Predicted Next Week: $%.2f (%s)\n", pc.Forecasts.NextWeek.Price, pc.Forecasts.NextWeek.Direction)
	fmt.Fprintf(&sb, "Predicted Next Month: $%.2f (%s)\n\n", pc.Forecasts.NextMonth.Price, pc.Forecasts.NextMonth.Direction)

	sb.WriteString("Technical Indicators:\n")
	fmt.Fprintf(&sb, "- RSI: %s\n", fmtFloat(pc.Indicators.RSI))
	if m := pc.Indicators.MACD; m != nil {
		fmt.Fprintf(&sb, "- MACD: %.2f\n", m.Value)
	} else {
		sb.WriteString("- MACD: n/a\n")
	}
	if v := pc.Indicators.HistoricalVolatility; v != nil {
		fmt.Fprintf(&sb, "- Volatility: %.2f%%\n", *v*100)
	} else {
		sb.WriteString("- Volatility: n/a\n")
	}
	fmt.Fprintf(&sb, "- MA7: $%s\n", fmtFloat(pc.Indicators.PriceMovingAverage.MA7))
	fmt.Fprintf(&sb, "- MA30: $%s\n\n", fmtFloat(pc.Indicators.PriceMovingAverage.MA30))

	sb.WriteString("Provide:\n")
	sb.WriteString("1. A brief summary (2-3 sentences)\n")
	sb.WriteString("2. 3 key factors influencing the prediction\n")
	sb.WriteString("3. 2 potential risks\n")
	sb.WriteString("4. 1 opportunity\n\n")
	sb.WriteString("Format as JSON with keys: summary, keyFactors (array), risks (array), opportunities (array)")

	return sb.String()
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
