package ebay

// categoryIDs maps the category tree onto eBay Browse API category IDs.
// Pairs without an entry search unfiltered.
var categoryIDs = map[string]map[string]string{
	"Tech": {
		"Headphones":     "15052",
		"Smartphones":    "9355",
		"Laptops":        "177",
		"Tablets":        "171485",
		"Graphics Cards": "27386",
	},
	"Gaming": {
		"Consoles":           "139971",
		"Video Games":        "139973",
		"Gaming Accessories": "54968",
	},
	"Collectibles": {
		"Trading Cards":  "2536",
		"Action Figures": "246",
		"Coins":          "11116",
	},
	"Fashion": {
		"Sneakers":          "15709",
		"Designer Clothing": "1059",
		"Vintage Clothing":  "175759",
		"Watches":           "14324",
	},
	"Vintage": {
		"Electronics": "181",
		"Cameras":     "625",
	},
}

// CategoryID resolves a category/subcategory pair to its eBay category ID.
func CategoryID(category, subcategory string) (string, bool) {
	subs, ok := categoryIDs[category]
	if !ok {
		return "", false
	}
	id, ok := subs[subcategory]
	return id, ok
}
