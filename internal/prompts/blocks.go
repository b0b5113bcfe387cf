package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"jewelry-studio-backend/internal/models"
)

const engravingPhysics = `ENGRAVING PHYSICS, V-SHAPED GROOVE IN REAL METAL:
- The engraving tool cuts V-shaped grooves into the metal surface
- The inside of each groove is angled and reflects light differently than the flat surface
- The groove wall FACING the light source appears as a bright specular line
- The groove wall AWAY from the light source falls into shadow
- The deepest point of each groove is the darkest
- Where the groove edge meets the flat surface there is a sharp specular highlight
- The engraving follows the 3D curvature of the surface, it is NOT flat text pasted on a curved object
- At the start and end of each letter stroke the groove tapers to a point where the burin enters and exits the metal
- Zoomed in 400% the engraving shows physical depth in the metal, not printed text`

// EngravingPhysics returns the V-groove shading rules present in every image
// prompt.
func EngravingPhysics() string {
	return engravingPhysics
}

// Spelling returns the name split into characters joined by " - ".
func Spelling(name string) string {
	return strings.Join(characters(name), " - ")
}

// CharacterCount counts characters, not bytes.
func CharacterCount(name string) int {
	return utf8.RuneCountInString(name)
}

func characters(name string) []string {
	chars := make([]string, 0, len(name))
	for _, r := range name {
		chars = append(chars, string(r))
	}
	return chars
}

func textReference(name string, language models.Language) string {
	var note string
	switch language {
	case models.LanguageArabic:
		note = "This is Arabic text. Render RIGHT-TO-LEFT with correct letter connections (initial, medial, final, isolated forms). Do NOT reverse the character order."
	case models.LanguageChinese:
		note = "These are Chinese characters. Render each character with precise stroke order and stroke count. Do NOT simplify or substitute characters."
	default:
		note = "This is Latin text. Render each character exactly as specified with correct kerning."
	}

	return fmt.Sprintf(`TEXT REFERENCE, THE NAME TO RENDER:
The customer's name is: "%s"
Spelled character by character: %s
Total characters: %d
%s
Every character must be present, correctly shaped and in the exact order shown above. Do NOT add, remove or rearrange any characters.`,
		name, Spelling(name), CharacterCount(name), note)
}

func textAccuracy(name string) string {
	return fmt.Sprintf("CRITICAL: The name '%s' must be spelled exactly as shown. Every letter must be present and legible. Character count: %d. Spelling check: %s",
		name, CharacterCount(name), Spelling(name))
}

func absoluteRules(hasReference bool, metal models.MetalTint) string {
	lines := []string{"ABSOLUTE RULES:"}
	if hasReference {
		lines = append(lines, "- DO NOT change anything about the reference image except applying the requested design modifications")
	}
	lines = append(lines,
		"- The name text must be physically part of the metal, raised, embossed or engraved, NEVER flat printed",
		"- Background: "+background(metal),
		"- Professional studio lighting with soft key light and subtle fill",
		"- Luxury catalog quality, this image is shown to customers as a product preview",
		"- The piece hangs or rests naturally from its attachment point",
		"- No watermarks, no logos, no text overlays outside the jewelry itself",
		"- The output image must be photorealistic at 1024x1024 resolution",
	)
	return strings.Join(lines, "\n")
}

func background(metal models.MetalTint) string {
	return lookup(backgroundStyles, string(metal), backgroundStyles[string(models.MetalYellow)])
}

func metalLabel(spec models.DesignSpec) string {
	tint := orDefault(string(spec.MetalType), string(models.MetalYellow))
	return fmt.Sprintf("%s %s gold", orDefault(string(spec.Karat), defaultKarat), tint)
}
