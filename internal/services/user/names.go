package user

import "math/rand/v2"

// nameWords feeds the random display-name generator. The original deploy
// filtered /usr/share/dict/words for capitalized entries; shipping a fixed
// list keeps name generation hermetic.
var nameWords = []string{
	"Amber", "Anchor", "Aspen", "Atlas", "Aurora", "Badger", "Basil",
	"Beacon", "Birch", "Biscuit", "Bramble", "Breeze", "Brook", "Cedar",
	"Charcoal", "Cinder", "Clover", "Cobalt", "Comet", "Coral", "Cricket",
	"Crimson", "Dapper", "Dune", "Ember", "Falcon", "Fennel", "Fern",
	"Flint", "Garnet", "Ginger", "Glacier", "Harbor", "Hazel", "Heron",
	"Hollow", "Indigo", "Iris", "Ivory", "Juniper", "Kestrel", "Lagoon",
	"Lantern", "Larch", "Lilac", "Linden", "Magpie", "Maple", "Marble",
	"Meadow", "Mesa", "Mistral", "Moss", "Nimbus", "Nutmeg", "Onyx",
	"Orchid", "Osprey", "Pebble", "Pepper", "Pine", "Plume", "Poppy",
	"Quartz", "Quill", "Raven", "Reef", "Ridge", "Saffron", "Sage",
	"Sandpiper", "Sequoia", "Sierra", "Sparrow", "Spruce", "Summit",
	"Tamarind", "Thistle", "Timber", "Topaz", "Tundra", "Umber", "Vale",
	"Walnut", "Willow", "Wren", "Zephyr",
}

// RandomName returns one capitalized word.
func RandomName() string {
	return nameWords[rand.IntN(len(nameWords))]
}

// RandomFullName returns a two-word display name.
func RandomFullName() string {
	return RandomName() + " " + RandomName()
}
