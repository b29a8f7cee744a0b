package feature

// Feature IDs. The declaration order of the catalog below is the
// canonical feature order used everywhere a deterministic traversal is
// needed, most importantly by the effect composer.
const (
	Brightness   ID = "brightness"
	Contrast     ID = "contrast"
	Saturation   ID = "saturation"
	HighContrast ID = "high-contrast"
	Monochrome   ID = "monochrome"
	Sepia        ID = "sepia"
	InvertColors ID = "invert-colors"
	HueRotation  ID = "hue-rotation"

	FontScale         ID = "font-scale"
	LineHeight        ID = "line-height"
	LetterSpacing     ID = "letter-spacing"
	WordSpacing       ID = "word-spacing"
	ReadableFont      ID = "readable-font"
	DyslexiaFont      ID = "dyslexia-font"
	TextAlign         ID = "text-align"
	HighlightLinks    ID = "highlight-links"
	HighlightHeadings ID = "highlight-headings"
	HighlightHover    ID = "highlight-hover"
	FocusIndicator    ID = "focus-indicator"
	TextMagnifier     ID = "text-magnifier"
	Tooltips          ID = "tooltips"

	Cursor         ID = "cursor"
	ReadingMask    ID = "reading-mask"
	HideImages     ID = "hide-images"
	MuteMedia      ID = "mute-media"
	PauseMotion    ID = "pause-motion"
	StopAutoplay   ID = "stop-autoplay"
	KeyboardNav    ID = "keyboard-nav"
	ColorProfile   ID = "color-profile"
	CognitiveLayer ID = "cognitive-layer"
)

// catalog is the single declaration of every feature. Order matters:
// the composer emits filter terms in this order, which fixes the
// canonical filter chain as brightness, contrast, saturate, grayscale,
// sepia, invert, hue-rotate.
var catalog = []Definition{
	// Filter-backed features.
	{ID: Brightness, Kind: KindPercent, Default: Value{Percent: 100}, Min: 50, Max: 200, Filter: "brightness", FilterUnit: "%"},
	{ID: Contrast, Kind: KindPercent, Default: Value{Percent: 100}, Min: 50, Max: 200, Filter: "contrast", FilterUnit: "%"},
	{ID: Saturation, Kind: KindPercent, Default: Value{Percent: 100}, Min: 0, Max: 200, Filter: "saturate", FilterUnit: "%"},
	{ID: HighContrast, Kind: KindToggle, Default: Value{}, Filter: "contrast", FilterOn: "125%", Class: "ak-high-contrast"},
	{ID: Monochrome, Kind: KindToggle, Default: Value{}, Filter: "grayscale", FilterOn: "100%"},
	{ID: Sepia, Kind: KindToggle, Default: Value{}, Filter: "sepia", FilterOn: "100%"},
	{ID: InvertColors, Kind: KindToggle, Default: Value{}, Filter: "invert", FilterOn: "100%"},
	{ID: HueRotation, Kind: KindPercent, Default: Value{Percent: 0}, Min: 0, Max: 360, Filter: "hue-rotate", FilterUnit: "deg"},

	// Typography and emphasis, rendered through root classes.
	{ID: FontScale, Kind: KindPercent, Default: Value{Percent: 100}, Min: 75, Max: 200, Class: "ak-font-scale"},
	{ID: LineHeight, Kind: KindPercent, Default: Value{Percent: 100}, Min: 100, Max: 200, Class: "ak-line-height"},
	{ID: LetterSpacing, Kind: KindPercent, Default: Value{Percent: 100}, Min: 100, Max: 150, Class: "ak-letter-spacing"},
	{ID: WordSpacing, Kind: KindPercent, Default: Value{Percent: 100}, Min: 100, Max: 150, Class: "ak-word-spacing"},
	{ID: ReadableFont, Kind: KindToggle, Default: Value{}, Class: "ak-readable-font"},
	{ID: DyslexiaFont, Kind: KindToggle, Default: Value{}, Class: "ak-dyslexia-font"},
	{ID: TextAlign, Kind: KindMode, Default: Value{Mode: "default"}, Modes: []string{"default", "left", "center", "right"}, Class: "ak-text-align"},
	{ID: HighlightLinks, Kind: KindToggle, Default: Value{}, Class: "ak-highlight-links"},
	{ID: HighlightHeadings, Kind: KindToggle, Default: Value{}, Class: "ak-highlight-headings"},
	{ID: HighlightHover, Kind: KindToggle, Default: Value{}, Class: "ak-highlight-hover"},
	{ID: FocusIndicator, Kind: KindToggle, Default: Value{}, Class: "ak-focus-indicator"},
	{ID: TextMagnifier, Kind: KindToggle, Default: Value{}, Class: "ak-text-magnifier"},
	{ID: Tooltips, Kind: KindToggle, Default: Value{}, Class: "ak-tooltips"},

	// Motor and media.
	{ID: Cursor, Kind: KindMode, Default: Value{Mode: "default"}, Modes: []string{"default", "big-black", "big-white"}, Class: "ak-cursor"},
	{ID: ReadingMask, Kind: KindToggle, Default: Value{}, Class: "ak-reading-mask"},
	{ID: HideImages, Kind: KindToggle, Default: Value{}, Class: "ak-hide-images"},
	{ID: MuteMedia, Kind: KindToggle, Default: Value{}, Class: "ak-mute-media"},
	{ID: PauseMotion, Kind: KindToggle, Default: Value{}, Class: "ak-pause-motion"},
	{ID: StopAutoplay, Kind: KindToggle, Default: Value{}, Class: "ak-stop-autoplay"},
	{ID: KeyboardNav, Kind: KindToggle, Default: Value{}, Class: "ak-keyboard-nav"},

	// Cognitive profiles.
	{ID: ColorProfile, Kind: KindMode, Default: Value{Mode: "none"}, Modes: []string{"none", "protanopia", "deuteranopia", "tritanopia"}, Class: "ak-color-profile"},
	{ID: CognitiveLayer, Kind: KindToggle, Default: Value{}, Class: "ak-cognitive-layer"},
}

var byID = func() map[ID]Definition {
	m := make(map[ID]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Lookup returns the definition for id.
func Lookup(id ID) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// All returns every definition in canonical catalog order. The returned
// slice is shared; callers must not modify it.
func All() []Definition {
	return catalog
}
