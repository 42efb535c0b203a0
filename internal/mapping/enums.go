package mapping

// Bijection maps a closed set of UI display values to stored backend values
// and back. Unknown input maps to the documented default in each direction —
// never an error — matching the listing form's behavior.
type Bijection struct {
	pairs         [][2]string // [ui, stored]
	defaultStored string
	defaultUI     string
}

// Stored returns the backend value for a UI display value.
func (b Bijection) Stored(ui string) string {
	for _, p := range b.pairs {
		if p[0] == ui {
			return p[1]
		}
	}
	return b.defaultStored
}

// UI returns the display value for a stored backend value.
func (b Bijection) UI(stored string) string {
	for _, p := range b.pairs {
		if p[1] == stored {
			return p[0]
		}
	}
	return b.defaultUI
}

// Status maps the listing status select: "Neuf"→new, "Occasion"→used,
// anything else →demo.
var Status = Bijection{
	pairs: [][2]string{
		{"Neuf", "new"},
		{"Occasion", "used"},
		{"Véhicule de démonstration", "demo"},
	},
	defaultStored: "demo",
	defaultUI:     "Occasion",
}

// SellerType maps the seller-type select: "Professionnel"→pro, anything
// else →individual.
var SellerType = Bijection{
	pairs: [][2]string{
		{"Professionnel", "pro"},
		{"Particulier", "individual"},
	},
	defaultStored: "individual",
	defaultUI:     "Particulier",
}

// Warranty normalizes the warranty select. The UI value "Aucune" means no
// warranty and is stored as absent, never as a literal string.
func Warranty(ui string) string {
	if ui == "Aucune" {
		return ""
	}
	return ui
}
