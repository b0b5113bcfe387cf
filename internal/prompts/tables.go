package prompts

// Variation is a camera, lighting and mood preset. Four of them turn one base
// prompt into four distinct product photographs of the same piece.
type Variation struct {
	Name     string
	Camera   string
	Lighting string
	Feel     string
}

type bodyPlacement struct {
	Part    string
	Framing string
	Pose    string
	Rules   string
}

// Fallback fragments used when a key is missing from its table.
const (
	defaultFont       = "elegant script"
	defaultDecoration = "none, pure polished gold"
	defaultSizeFeel   = "balanced, elegant, 18mm"
	defaultJewelry    = "pendant"
	defaultKarat      = "18K"
	defaultAesthetic  = "minimalist"
)

var variations = []Variation{
	{
		Name:     "Hero",
		Camera:   "front-facing straight-on view, pendant centered in frame with even margins on all sides",
		Lighting: "even diffused studio lighting with twin soft-boxes at 45 degrees, minimal shadows, clean white bounce fill from below",
		Feel:     "clean catalog product shot, crisp and symmetrical, maximum clarity for e-commerce",
	},
	{
		Name:     "Angled",
		Camera:   "3/4 turn showing the pendant at roughly 30-40 degrees from front, revealing side profile and depth",
		Lighting: "key light from the right side at 45 degrees with subtle fill on the left, gentle shadows that reveal form",
		Feel:     "dimensional and sculptural, emphasising the depth of the lettering and the thickness of the metal",
	},
	{
		Name:     "Macro",
		Camera:   "tight close-up crop on the engraved name, filling 70-80% of the frame with the text detail",
		Lighting: "focused spot light raking across the surface at a low angle to accentuate groove depth and surface texture",
		Feel:     "intimate detail shot showing craftsmanship, metal grain and the physical depth of every letter stroke",
	},
	{
		Name:     "Dramatic",
		Camera:   "slightly lower angle looking up at the pendant, creating a sense of grandeur and presence",
		Lighting: "warm directional light from upper-left with deep shadows on the right, dramatic fall-off into darkness",
		Feel:     "moody luxury editorial with rich contrast, as in high-end magazine advertising",
	},
}

var fontStyles = map[string]string{
	"script":  "elegant flowing cursive script with connected letter strokes and graceful loops",
	"modern":  "clean modern sans-serif uppercase with uniform stroke width and geometric proportions",
	"classic": "refined classic serif with balanced proportions and subtle bracketed serifs",
	"naskh":   "traditional Naskh Arabic calligraphy with flowing connected letterforms and balanced dots",
	"diwani":  "ornate Diwani Arabic calligraphy with dramatic curved strokes and stacked composition",
	"kufi":    "angular Kufic Arabic calligraphy with geometric straight lines and square proportions",
	"regular": "standard regular-weight letterforms with even stroke width and neutral proportions",
	"serif":   "classic serif letterforms with thin-to-thick stroke contrast and traditional terminals",
	"bold":    "bold heavyweight letterforms with strong stroke width and commanding presence",
}

var decorationStyles = map[string]string{
	"gold_only":          "pure polished gold with no stones, clean surfaces with mirror-like reflections and subtle brushed accents",
	"gold_with_stones":   "gold set with semi-precious gemstones (sapphires, rubies or emeralds) in prong or bezel settings along the frame or bail",
	"gold_with_diamonds": "gold set with brilliant-cut diamonds in micro-pave or channel settings, each facet catching light with fire and scintillation",
}

var sizeFeels = map[string]string{
	"small":  "delicate and petite, approximately 12mm in height, subtle everyday jewelry with fine detail",
	"medium": "balanced and versatile, approximately 18mm in height, the classic statement pendant size",
	"large":  "bold and commanding, approximately 25mm in height, a striking centerpiece with generous surface area",
}

var backgroundStyles = map[string]string{
	"yellow": "deep charcoal dark velvet background (#1A1A1A) to maximise warm gold contrast and specular highlights",
	"white":  "warm slate background (#2D2D2D) to separate the cool white-gold tones from the environment",
	"rose":   "warm cream background (#FAF7F2) to complement the soft pink-copper tones of rose gold",
}

var bodyPlacements = map[string]bodyPlacement{
	"pendant": {
		Part:    "neck and upper chest",
		Framing: "chin to clavicle, tight crop on the neckline area",
		Pose:    "elegant, slightly turned head, natural relaxed shoulders",
		Rules:   "NO face above the lips, NO eyes, NO full head visible",
	},
	"necklace": {
		Part:    "neck and upper chest",
		Framing: "chin to clavicle, tight crop on the neckline area",
		Pose:    "elegant, slightly turned head, natural relaxed shoulders",
		Rules:   "NO face above the lips, NO eyes, NO full head visible",
	},
	"name_pendant": {
		Part:    "neck and upper chest",
		Framing: "chin to clavicle, tight crop centering the pendant on the chest",
		Pose:    "straight-on or slight 3/4 turn, relaxed shoulders, pendant resting naturally",
		Rules:   "NO face above the lips, NO eyes, NO full head visible",
	},
	"chain": {
		Part:    "neck and upper chest",
		Framing: "chin to mid-chest, showing the full chain drape",
		Pose:    "natural relaxed posture, chain catching light",
		Rules:   "NO face above the lips, NO eyes, NO full head visible",
	},
	"ring": {
		Part:    "hand and fingers",
		Framing: "close crop on the hand, ring prominent on the finger",
		Pose:    "graceful hand pose, fingers slightly separated",
		Rules:   "NO face, NO body above the wrist, hand only",
	},
	"bracelet": {
		Part:    "hand and wrist",
		Framing: "wrist and lower forearm, hand upright in a product hand pose",
		Pose:    "wrist slightly turned to catch light, fingers relaxed",
		Rules:   "NO face, NO body above the mid-forearm, wrist and hand only",
	},
	"earrings": {
		Part:    "ear and jawline",
		Framing: "side profile from ear to jaw, hair swept back to reveal the earring",
		Pose:    "head turned to show the earring in profile, chin slightly lifted",
		Rules:   "NO eyes visible, NO frontal face, side profile only, hair swept behind the ear",
	},
}

var cameraMotions = map[string]string{
	"pendant":      "slow 180-degree arc around the pendant, starting from a front-facing hero angle and sweeping to a side profile, with a slight downward tilt to catch reflections on the metal",
	"name_pendant": "slow 180-degree arc around the name pendant, starting front-on to clearly show the name, then sweeping to a 3/4 angle to reveal the depth of each letter",
	"ring":         "smooth 360-degree turntable rotation starting from the top of the ring face, constant speed, ring centered and tack-sharp for the full revolution",
	"bracelet":     "slow arc at wrist level, starting from a direct side view and sweeping 120 degrees around the bracelet at a constant distance to show the full circumference and clasp",
	"earrings":     "gentle sway and rotate, the earring hangs from a display and rocks softly while the camera orbits 90 degrees, catching light on the stones and metal",
	"chain":        "overhead-to-front arc, starting from a bird's-eye view of the chain laid flat, then arcing forward to a front-facing angle showing its drape and shine",
	"necklace":     "overhead-to-front arc, starting from above showing the full necklace circle, then arcing down to a front view of the pendant at the center of the chain",
}

var videoLighting = map[string]string{
	"yellow": "warm studio lighting with soft golden key light from the upper left, subtle fill from the right and a backlight rim separating the piece from the background",
	"rose":   "warm pink-tinted studio lighting with a soft key light from the upper left, gentle fill and a cool backlight rim that makes the rose tones glow",
	"white":  "cool neutral studio lighting with a crisp key light from the upper left, minimal fill for contrast and a bright backlight rim on the silver-white surface",
}

var videoNegatives = []string{
	"shaky camera",
	"blurry",
	"out of focus",
	"distorted geometry",
	"morphing shapes",
	"melting metal",
	"text overlay",
	"watermark",
	"logo",
	"fast movement",
	"sudden cuts",
	"jump cuts",
	"flickering",
	"low quality",
	"pixelated",
	"grainy",
	"overexposed",
	"underexposed",
	"artifacts",
	"hands",
	"fingers",
	"human body",
	"face",
	"deformed jewelry",
	"broken chain",
	"misshapen stones",
	"floating objects",
	"multiple pieces",
	"duplicate jewelry",
}

// VariationFor returns the preset used for a variation index.
func VariationFor(index int) Variation {
	if index < 0 {
		index = -index
	}
	return variations[index%len(variations)]
}

func lookup(table map[string]string, key, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// needsChain reports whether the piece hangs from a chain.
func needsChain(jewelryType string) bool {
	switch jewelryType {
	case "pendant", "name_pendant", "necklace", "chain":
		return true
	}
	return false
}
