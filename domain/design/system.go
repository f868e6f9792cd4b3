// Package design holds the UI design token set produced by Stage 3.
//
// Downstream stages treat System as opaque: they pass it through to prompts
// and to the final artifact without interpreting individual tokens.
package design

// System is a complete UI token set.
type System struct {
	ColorPalette    ColorPalette    `json:"colorPalette"`
	Typography      Typography      `json:"typography"`
	Spacing         Spacing         `json:"spacing"`
	BorderRadius    BorderRadius    `json:"borderRadius"`
	Shadows         Shadows         `json:"shadows"`
	Animations      Animations      `json:"animations"`
	ComponentStyles ComponentStyles `json:"componentStyles"`
}

// ColorPalette has ten named color roles.
type ColorPalette struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Success       string `json:"success"`
	Warning       string `json:"warning"`
	Error         string `json:"error"`
}

type Typography struct {
	FontFamily   string      `json:"fontFamily"`
	HeadingSizes SizeScale4  `json:"headingSizes"`
	TextSizes    TextSizes   `json:"textSizes"`
	FontWeights  FontWeights `json:"fontWeights"`
	LineHeights  LineHeights `json:"lineHeights"`
}

type SizeScale4 struct {
	XL string `json:"xl"`
	LG string `json:"lg"`
	MD string `json:"md"`
	SM string `json:"sm"`
}

type TextSizes struct {
	LG   string `json:"lg"`
	Base string `json:"base"`
	SM   string `json:"sm"`
	XS   string `json:"xs"`
}

type FontWeights struct {
	Light    int `json:"light"`
	Normal   int `json:"normal"`
	Medium   int `json:"medium"`
	Semibold int `json:"semibold"`
	Bold     int `json:"bold"`
}

type LineHeights struct {
	Tight   string `json:"tight"`
	Normal  string `json:"normal"`
	Relaxed string `json:"relaxed"`
}

// Spacing has seven steps.
type Spacing struct {
	XS   string `json:"xs"`
	SM   string `json:"sm"`
	MD   string `json:"md"`
	LG   string `json:"lg"`
	XL   string `json:"xl"`
	XXL  string `json:"2xl"`
	XXXL string `json:"3xl"`
}

// BorderRadius has five steps.
type BorderRadius struct {
	SM   string `json:"sm"`
	MD   string `json:"md"`
	LG   string `json:"lg"`
	XL   string `json:"xl"`
	Full string `json:"full"`
}

// Shadows has four steps.
type Shadows struct {
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

type Animations struct {
	Duration Durations `json:"duration"`
	Easing   Easings   `json:"easing"`
	Effects  []string  `json:"effects"`
}

type Durations struct {
	Fast   string `json:"fast"`
	Normal string `json:"normal"`
	Slow   string `json:"slow"`
}

type Easings struct {
	Ease      string `json:"ease"`
	EaseIn    string `json:"easeIn"`
	EaseOut   string `json:"easeOut"`
	EaseInOut string `json:"easeInOut"`
}

// ComponentStyles are free-form style hints per component family.
type ComponentStyles struct {
	Card   map[string]any `json:"card"`
	Button map[string]any `json:"button"`
	Input  map[string]any `json:"input"`
	Label  map[string]any `json:"label"`
}

// Missing returns the token paths that are empty. A System with no missing
// tokens is complete.
func (s *System) Missing() []string {
	var missing []string
	check := func(path, v string) {
		if v == "" {
			missing = append(missing, path)
		}
	}

	c := s.ColorPalette
	check("colorPalette.primary", c.Primary)
	check("colorPalette.secondary", c.Secondary)
	check("colorPalette.accent", c.Accent)
	check("colorPalette.background", c.Background)
	check("colorPalette.surface", c.Surface)
	check("colorPalette.text", c.Text)
	check("colorPalette.textSecondary", c.TextSecondary)
	check("colorPalette.success", c.Success)
	check("colorPalette.warning", c.Warning)
	check("colorPalette.error", c.Error)

	ty := s.Typography
	check("typography.fontFamily", ty.FontFamily)
	check("typography.headingSizes.xl", ty.HeadingSizes.XL)
	check("typography.headingSizes.lg", ty.HeadingSizes.LG)
	check("typography.headingSizes.md", ty.HeadingSizes.MD)
	check("typography.headingSizes.sm", ty.HeadingSizes.SM)
	check("typography.textSizes.lg", ty.TextSizes.LG)
	check("typography.textSizes.base", ty.TextSizes.Base)
	check("typography.textSizes.sm", ty.TextSizes.SM)
	check("typography.textSizes.xs", ty.TextSizes.XS)
	for path, w := range map[string]int{
		"typography.fontWeights.light":    ty.FontWeights.Light,
		"typography.fontWeights.normal":   ty.FontWeights.Normal,
		"typography.fontWeights.medium":   ty.FontWeights.Medium,
		"typography.fontWeights.semibold": ty.FontWeights.Semibold,
		"typography.fontWeights.bold":     ty.FontWeights.Bold,
	} {
		if w <= 0 {
			missing = append(missing, path)
		}
	}
	check("typography.lineHeights.tight", ty.LineHeights.Tight)
	check("typography.lineHeights.normal", ty.LineHeights.Normal)
	check("typography.lineHeights.relaxed", ty.LineHeights.Relaxed)

	sp := s.Spacing
	check("spacing.xs", sp.XS)
	check("spacing.sm", sp.SM)
	check("spacing.md", sp.MD)
	check("spacing.lg", sp.LG)
	check("spacing.xl", sp.XL)
	check("spacing.2xl", sp.XXL)
	check("spacing.3xl", sp.XXXL)

	r := s.BorderRadius
	check("borderRadius.sm", r.SM)
	check("borderRadius.md", r.MD)
	check("borderRadius.lg", r.LG)
	check("borderRadius.xl", r.XL)
	check("borderRadius.full", r.Full)

	sh := s.Shadows
	check("shadows.sm", sh.SM)
	check("shadows.md", sh.MD)
	check("shadows.lg", sh.LG)
	check("shadows.xl", sh.XL)

	a := s.Animations
	check("animations.duration.fast", a.Duration.Fast)
	check("animations.duration.normal", a.Duration.Normal)
	check("animations.duration.slow", a.Duration.Slow)
	check("animations.easing.ease", a.Easing.Ease)
	check("animations.easing.easeIn", a.Easing.EaseIn)
	check("animations.easing.easeOut", a.Easing.EaseOut)
	check("animations.easing.easeInOut", a.Easing.EaseInOut)

	return missing
}

// Complete reports whether every token category is present.
func (s *System) Complete() bool {
	return len(s.Missing()) == 0
}

// Default is the fully specified token set substituted when Stage 3 fails.
func Default() System {
	return System{
		ColorPalette: ColorPalette{
			Primary:       "#3b82f6",
			Secondary:     "#6366f1",
			Accent:        "#8b5cf6",
			Background:    "#ffffff",
			Surface:       "#f8fafc",
			Text:          "#1f2937",
			TextSecondary: "#6b7280",
			Success:       "#10b981",
			Warning:       "#f59e0b",
			Error:         "#ef4444",
		},
		Typography: Typography{
			FontFamily:   "Inter, system-ui, sans-serif",
			HeadingSizes: SizeScale4{XL: "2rem", LG: "1.5rem", MD: "1.25rem", SM: "1.125rem"},
			TextSizes:    TextSizes{LG: "1.125rem", Base: "1rem", SM: "0.875rem", XS: "0.75rem"},
			FontWeights:  FontWeights{Light: 300, Normal: 400, Medium: 500, Semibold: 600, Bold: 700},
			LineHeights:  LineHeights{Tight: "1.25", Normal: "1.5", Relaxed: "1.75"},
		},
		Spacing: Spacing{
			XS: "0.25rem", SM: "0.5rem", MD: "1rem", LG: "1.5rem",
			XL: "2rem", XXL: "3rem", XXXL: "4rem",
		},
		BorderRadius: BorderRadius{SM: "0.25rem", MD: "0.5rem", LG: "0.75rem", XL: "1rem", Full: "9999px"},
		Shadows: Shadows{
			SM: "0 1px 2px 0 rgb(0 0 0 / 0.05)",
			MD: "0 4px 6px -1px rgb(0 0 0 / 0.1)",
			LG: "0 10px 15px -3px rgb(0 0 0 / 0.1)",
			XL: "0 20px 25px -5px rgb(0 0 0 / 0.1)",
		},
		Animations: Animations{
			Duration: Durations{Fast: "150ms", Normal: "300ms", Slow: "500ms"},
			Easing:   Easings{Ease: "ease", EaseIn: "ease-in", EaseOut: "ease-out", EaseInOut: "ease-in-out"},
			Effects:  []string{"hover:scale-105", "hover:shadow-lg", "focus:ring-2", "transition-all"},
		},
		ComponentStyles: ComponentStyles{
			Card: map[string]any{
				"background":   "#ffffff",
				"borderRadius": "0.75rem",
				"padding":      "1.5rem",
				"shadow":       "0 4px 6px -1px rgb(0 0 0 / 0.1)",
			},
			Button: map[string]any{
				"primary":      "bg-blue-500 hover:bg-blue-600 text-white",
				"secondary":    "bg-gray-100 hover:bg-gray-200 text-gray-900",
				"borderRadius": "0.5rem",
				"padding":      "0.75rem 1.5rem",
			},
			Input: map[string]any{
				"border":       "1px solid #d1d5db",
				"borderRadius": "0.5rem",
				"padding":      "0.75rem",
				"focus":        "ring-2 ring-blue-500 border-blue-500",
			},
			Label: map[string]any{
				"fontSize":     "0.875rem",
				"fontWeight":   "500",
				"color":        "#374151",
				"marginBottom": "0.5rem",
			},
		},
	}
}
