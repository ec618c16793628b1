package catalog

import (
	"sort"
	"strings"
)

// MenuItem is a trusted menu entry. The menu is the single source of truth
// for food prices: extractor-supplied prices are overwritten whenever the
// item name resolves here, and kept verbatim only for names the menu does
// not know.
type MenuItem struct {
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

var foodMenu = map[string]MenuItem{
	// Main dishes
	"rice":        {Name: "rice", UnitPrice: 8.99, Category: "main", Description: "Steamed white rice"},
	"fried rice":  {Name: "fried rice", UnitPrice: 12.99, Category: "main", Description: "Fried rice with vegetables"},
	"jollof rice": {Name: "jollof rice", UnitPrice: 14.99, Category: "main", Description: "Nigerian spiced rice"},
	"chicken":     {Name: "chicken", UnitPrice: 15.99, Category: "protein", Description: "Grilled chicken breast"},
	"beef":        {Name: "beef", UnitPrice: 18.99, Category: "protein", Description: "Grilled beef"},
	"fish":        {Name: "fish", UnitPrice: 16.99, Category: "protein", Description: "Grilled fish fillet"},
	"stew":        {Name: "stew", UnitPrice: 3.99, Category: "sauce", Description: "Traditional tomato stew"},
	"curry":       {Name: "curry", UnitPrice: 4.99, Category: "sauce", Description: "Spicy curry sauce"},
	"pasta":       {Name: "pasta", UnitPrice: 13.99, Category: "main", Description: "Italian pasta"},
	"pizza":       {Name: "pizza", UnitPrice: 16.99, Category: "main", Description: "Wood-fired pizza"},
	"burger":      {Name: "burger", UnitPrice: 12.99, Category: "main", Description: "Beef burger with fries"},
	"sandwich":    {Name: "sandwich", UnitPrice: 9.99, Category: "main", Description: "Club sandwich"},

	// Drinks
	"pepsi":  {Name: "pepsi", UnitPrice: 2.99, Category: "drink", Description: "Pepsi cola"},
	"coke":   {Name: "coke", UnitPrice: 2.99, Category: "drink", Description: "Coca cola"},
	"sprite": {Name: "sprite", UnitPrice: 2.99, Category: "drink", Description: "Sprite lemon-lime"},
	"water":  {Name: "water", UnitPrice: 1.99, Category: "drink", Description: "Bottled water"},
	"juice":  {Name: "juice", UnitPrice: 3.99, Category: "drink", Description: "Fresh fruit juice"},
	"coffee": {Name: "coffee", UnitPrice: 4.99, Category: "drink", Description: "Freshly brewed coffee"},
	"tea":    {Name: "tea", UnitPrice: 3.99, Category: "drink", Description: "Hot tea"},

	// Sides
	"fries":    {Name: "fries", UnitPrice: 4.99, Category: "side", Description: "French fries"},
	"salad":    {Name: "salad", UnitPrice: 6.99, Category: "side", Description: "Fresh garden salad"},
	"bread":    {Name: "bread", UnitPrice: 2.99, Category: "side", Description: "Fresh bread rolls"},
	"plantain": {Name: "plantain", UnitPrice: 3.99, Category: "side", Description: "Fried plantain"},
}

// LookupMenu resolves a food name against the trusted menu. Matching is
// case-insensitive on the canonical item name.
func LookupMenu(name string) (MenuItem, bool) {
	item, ok := foodMenu[strings.ToLower(strings.TrimSpace(name))]
	return item, ok
}

// MenuItemNames returns every canonical menu key, for prompt construction.
func MenuItemNames() []string {
	names := make([]string, 0, len(foodMenu))
	for name := range foodMenu {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
