package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Service categories that require structured follow-up data before a quote
// can be computed.
const (
	ServiceCleaning = "cleaning"
	ServiceLaundry  = "laundry"
)

type Service struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

type ServiceResults struct {
	Services   []Service `json:"services"`
	AIResponse string    `json:"ai_response"`
}

// ServiceSearch matches offered services by keyword against the query.
type ServiceSearch struct {
	services []Service
}

func NewServiceSearch() *ServiceSearch {
	return &ServiceSearch{services: offeredServices}
}

func (s *ServiceSearch) Search(ctx context.Context, query string) (*ServiceResults, error) {
	lowerQuery := strings.ToLower(query)

	var matched []Service
	for _, service := range s.services {
		if strings.Contains(lowerQuery, service.Type) ||
			strings.Contains(lowerQuery, strings.ToLower(service.Name)) {
			matched = append(matched, service)
		}
	}

	var aiResponse string
	if len(matched) > 0 {
		first := matched[0]
		aiResponse = fmt.Sprintf("You asked about %s. Here's what we offer:\n\n%s", first.Name, first.Details)
	} else {
		aiResponse = fmt.Sprintf("Sorry, I couldn't find a matching service for %q. Please try asking about cleaning or laundry.", query)
	}

	return &ServiceResults{Services: matched, AIResponse: aiResponse}, nil
}

var offeredServices = []Service{
	{
		Name: "Home Cleaning",
		Type: ServiceCleaning,
		Description: "Thorough cleaning of your home, including bedrooms, bathrooms, " +
			"kitchen, and common areas. We offer regular and deep cleaning options.",
		Details: strings.TrimSpace(`
How Home Cleaning Works:

1. Book Online or Chat: Tell us how many rooms and what kind of cleaning you want (regular or deep clean).
2. Get a Quote: Based on your home's size and your preferences.
3. Scheduled Visit: Our trained team arrives with all supplies.
4. Cleaning in Action: We follow a checklist tailored to your home.
5. You're Done: Review and relax in your freshly cleaned home.

Pricing Model:
- Standard: $25-$50/hour
- Deep Clean: $200-$400 depending on size
- Add-ons: Fridge, oven, balcony, laundry (extra)

Satisfaction guaranteed!`),
	},
	{
		Name: "Laundry Pickup",
		Type: ServiceLaundry,
		Description: "Fast and convenient laundry service. We pick up, wash, fold, " +
			"and deliver your clothes fresh and clean.",
		Details: strings.TrimSpace(`
How Laundry Pickup Works:

1. Schedule a Pickup: Let us know when and where.
2. We Collect: Our runner picks up your laundry.
3. We Wash & Fold: Professional cleaning using premium detergents.
4. We Deliver: Get your clothes back fresh and folded within 24-48 hours.

Pricing:
- Per kg or per bag
- Express options available

Great for busy professionals or families!`),
	},
}
