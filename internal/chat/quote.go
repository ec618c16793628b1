package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/errandboy/server/internal/catalog"
)

// Cleaning quote pricing, in dollars.
const (
	bedroomRate   = 30
	bathroomRate  = 20
	deepCleanFee  = 100
	cleaningExtra = 20
)

// Laundry quote pricing, in dollars.
const (
	laundryUnitRate = 5
	expressFee      = 15
)

var (
	bedroomsPattern  = regexp.MustCompile(`(?i)(\d+)\s*bedrooms?`)
	bathroomsPattern = regexp.MustCompile(`(?i)(\d+)\s*bathrooms?`)
	deepCleanPattern = regexp.MustCompile(`(?i)deep clean`)
	kgsPattern       = regexp.MustCompile(`(?i)(\d+)\s*kgs?`)
	bagsPattern      = regexp.MustCompile(`(?i)(\d+)\s*bags?`)
	expressPattern   = regexp.MustCompile(`(?i)express`)
)

var cleaningExtras = []string{"fridge", "oven", "balcony", "laundry"}

// QuoteFromInput computes a deterministic price quote from the user's
// free-text follow-up reply. The second return value is false when the
// service type has no quote rules, in which case the message is an apology.
func QuoteFromInput(serviceType, input string) (string, bool) {
	switch serviceType {
	case catalog.ServiceCleaning:
		return cleaningQuote(input), true
	case catalog.ServiceLaundry:
		return laundryQuote(input), true
	default:
		return "Sorry, I couldn't calculate a quote for that service.", false
	}
}

func cleaningQuote(input string) string {
	bedrooms := matchCount(bedroomsPattern, input)
	bathrooms := matchCount(bathroomsPattern, input)
	deepClean := deepCleanPattern.MatchString(input)

	var extras []string
	lower := strings.ToLower(input)
	for _, extra := range cleaningExtras {
		if strings.Contains(lower, extra) {
			extras = append(extras, extra)
		}
	}

	price := bedrooms*bedroomRate + bathrooms*bathroomRate
	if deepClean {
		price += deepCleanFee
	}
	price += len(extras) * cleaningExtra

	cleanKind := "a regular clean,"
	if deepClean {
		cleanKind = "a deep clean,"
	}
	extrasText := strings.Join(extras, ", ")
	if extrasText == "" {
		extrasText = "none"
	}

	return fmt.Sprintf(
		"Based on what you shared, your personalized cleaning quote is approximately $%d. This includes %d bedrooms, %d bathrooms, %s and extras: %s.",
		price, bedrooms, bathrooms, cleanKind, extrasText,
	)
}

func laundryQuote(input string) string {
	unit := "bags"
	quantity := matchCount(kgsPattern, input)
	if quantity > 0 {
		unit = "kgs"
	} else {
		quantity = matchCount(bagsPattern, input)
	}
	express := expressPattern.MatchString(input)

	price := quantity * laundryUnitRate
	expressText := ""
	if express {
		price += expressFee
		expressText = " with express delivery"
	}

	return fmt.Sprintf(
		"Your laundry quote is approximately $%d for %d %s of laundry%s.",
		price, quantity, unit, expressText,
	)
}

func matchCount(pattern *regexp.Regexp, input string) int {
	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
