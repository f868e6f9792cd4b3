package artifact

import "surveygen/domain/design"

// Theme is the resolved presentation theme attached to a survey.
type Theme struct {
	Name            string            `json:"name"`
	PrimaryColor    string            `json:"primaryColor"`
	SecondaryColor  string            `json:"secondaryColor"`
	BackgroundColor string            `json:"backgroundColor"`
	TextColor       string            `json:"textColor"`
	AccentColor     string            `json:"accentColor"`
	FontFamily      string            `json:"fontFamily"`
	BorderRadius    int               `json:"borderRadius"`
	Spacing         int               `json:"spacing"`
	Animations      bool              `json:"animations"`
	ComponentStyle  map[string]string `json:"componentStyle"`
}

type palette struct {
	primary, secondary, background, text, accent string
}

// namedThemes are the themes the template library refers to.
var namedThemes = map[string]palette{
	"modern-gradient":   {"#3b82f6", "#8b5cf6", "#ffffff", "#1f2937", "#06b6d4"},
	"professional-blue": {"#1e40af", "#3b82f6", "#ffffff", "#1f2937", "#60a5fa"},
	"academic-neutral":  {"#374151", "#6b7280", "#ffffff", "#111827", "#9ca3af"},
	"corporate-blue":    {"#1d4ed8", "#1e3a8a", "#ffffff", "#111827", "#3b82f6"},
	"friendly-blue":     {"#2563eb", "#38bdf8", "#f8fafc", "#1f2937", "#fbbf24"},
	"friendly-green":    {"#16a34a", "#4ade80", "#f0fdf4", "#14532d", "#facc15"},
	"research-purple":   {"#6d28d9", "#8b5cf6", "#ffffff", "#1f2937", "#c4b5fd"},
}

// KnownTheme reports whether name is in the theme table.
func KnownTheme(name string) bool {
	_, ok := namedThemes[name]
	return ok
}

// ResolveTheme returns the named theme, or a theme derived from the design
// system palette when the name is unknown.
func ResolveTheme(name string, ds design.System, animations bool) Theme {
	p, ok := namedThemes[name]
	if !ok {
		c := ds.ColorPalette
		p = palette{c.Primary, c.Secondary, c.Background, c.Text, c.Accent}
	}

	font := ds.Typography.FontFamily
	if font == "" {
		font = design.Default().Typography.FontFamily
	}

	return Theme{
		Name:            name,
		PrimaryColor:    p.primary,
		SecondaryColor:  p.secondary,
		BackgroundColor: p.background,
		TextColor:       p.text,
		AccentColor:     p.accent,
		FontFamily:      font,
		BorderRadius:    12,
		Spacing:         16,
		Animations:      animations,
		ComponentStyle: map[string]string{
			"padding":      "1.5rem",
			"borderRadius": "0.75rem",
			"shadow":       "0 4px 6px -1px rgba(0, 0, 0, 0.1)",
			"border":       "1px solid #e5e7eb",
		},
	}
}
