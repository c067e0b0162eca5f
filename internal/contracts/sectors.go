package contracts

// Sectors is the fixed enumeration screened on every pass.
// The order matters: it breaks score ties.
var Sectors = []string{
	"Basic Materials",
	"Consumer Cyclical",
	"Financial Services",
	"Real Estate",
	"Consumer Defensive",
	"Healthcare",
	"Utilities",
	"Communication Services",
	"Energy",
	"Industrials",
	"Technology",
}

// IsKnownSector checks if name is one of Sectors
func IsKnownSector(name string) bool {
	for _, s := range Sectors {
		if s == name {
			return true
		}
	}
	return false
}
