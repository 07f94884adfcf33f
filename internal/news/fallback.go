package news

import (
	"time"

	"github.com/google/uuid"
)

// Fallback returns the fixed headline list served when the search provider is unavailable.
func Fallback(now time.Time) []Item {
	date := now.Format(dateLayout)
	return []Item{
		{
			ID:          uuid.NewString(),
			Title:       "Markets Update: Sensex and Nifty close higher",
			Description: "Indian benchmark indices closed higher today, with banking and IT sectors leading the gains. Foreign institutional investors were net buyers.",
			Source:      "MoneyControl",
			URL:         "https://www.moneycontrol.com/",
			PublishedAt: date,
		},
		{
			ID:          uuid.NewString(),
			Title:       "RBI keeps repo rate unchanged",
			Description: "The Reserve Bank of India maintained the repo rate, citing inflation concerns while maintaining an accommodative stance for economic growth.",
			Source:      "EconomicTimes",
			URL:         "https://economictimes.indiatimes.com/",
			PublishedAt: date,
		},
		{
			ID:          uuid.NewString(),
			Title:       "IT Companies Report Strong Q4 Earnings",
			Description: "Major Indian IT services companies reported better-than-expected quarterly results, driven by digital transformation deals and cost optimization measures.",
			Source:      "LiveMint",
			URL:         "https://www.livemint.com/",
			PublishedAt: date,
		},
	}
}
