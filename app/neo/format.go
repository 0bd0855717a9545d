package neo

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const shortNameLength = 20

var printer = message.NewPrinter(language.English)

// DisplayName strips the parenthesized designator markers from a feed name,
// e.g. "(2024 AB1)" becomes "2024 AB1".
func DisplayName(name string) string {
	name = strings.NewReplacer("(", "", ")", "").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown NEO"
	}
	return name
}

// ShortName is the chart label for the object at position index.
func ShortName(name string, index int) string {
	name = strings.TrimSpace(strings.NewReplacer("(", "", ")", "").Replace(name))
	if name == "" {
		return fmt.Sprintf("NEO %d", index+1)
	}
	runes := []rune(name)
	if len(runes) > shortNameLength {
		runes = runes[:shortNameLength]
	}
	return string(runes) + "..."
}

// DistanceCategory buckets a miss distance given in lunar distances. A
// reported distance of 0 is Very Close; callers without an approach use
// "Distant" directly.
func DistanceCategory(lunar float64) string {
	switch {
	case lunar < 10:
		return "Very Close"
	case lunar < 50:
		return "Close"
	default:
		return "Distant"
	}
}

func SizeCategory(avgKm float64) string {
	switch {
	case avgKm >= 1:
		return "Large"
	case avgKm >= 0.1:
		return "Medium"
	default:
		return "Small"
	}
}

func FormatDistance(km float64) string {
	switch {
	case km > 1_000_000:
		return fmt.Sprintf("%.2f million km", km/1_000_000)
	case km > 1000:
		return fmt.Sprintf("%.0f thousand km", km/1000)
	default:
		return fmt.Sprintf("%.0f km", km)
	}
}

func FormatVelocity(kmh float64) string {
	return printer.Sprintf("%v km/h", number.Decimal(kmh, number.MaxFractionDigits(3)))
}

func FormatDiameter(km float64) string {
	if km >= 1 {
		return fmt.Sprintf("%.2f km", km)
	}
	return fmt.Sprintf("%.0f m", km*1000)
}
