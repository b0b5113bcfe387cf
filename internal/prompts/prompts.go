// Package prompts turns a design specification into model-ready prompt text.
// Every builder is deterministic and touches neither network nor storage.
package prompts

import (
	"encoding/json"
	"fmt"

	"jewelry-studio-backend/internal/models"
)

// Shot selects the preset and grounding mode of one image prompt.
type Shot struct {
	Variation    int
	HasReference bool
	// HeroAnchored marks calls whose main image reference is the approved hero
	// render of this design.
	HeroAnchored bool
}

type outputFormat struct {
	AspectRatio string `json:"aspect_ratio"`
	Resolution  string `json:"resolution"`
	Instruction string `json:"instruction"`
}

type shotContext struct {
	JewelryType       string `json:"jewelry_type"`
	Metal             string `json:"metal"`
	Decoration        string `json:"decoration"`
	SizeFeel          string `json:"size_feel"`
	DesignStyle       string `json:"design_style"`
	StyleReference    string `json:"style_reference,omitempty"`
	HasReferenceImage bool   `json:"has_reference_image"`
	Instruction       string `json:"instruction"`
}

type engraving struct {
	Text         string `json:"text"`
	FontStyle    string `json:"font_style"`
	Physics      string `json:"physics"`
	TextAccuracy string `json:"text_accuracy"`
	Legibility   string `json:"legibility,omitempty"`
}

type camera struct {
	Angle        string `json:"angle"`
	Lighting     string `json:"lighting"`
	Feel         string `json:"feel"`
	Lens         string `json:"lens"`
	DepthOfField string `json:"depth_of_field,omitempty"`
	Resolution   string `json:"resolution"`
}

type backdrop struct {
	Description string `json:"description"`
	Composition string `json:"composition"`
	Style       string `json:"style"`
}

type body struct {
	Part     string `json:"part"`
	Framing  string `json:"framing"`
	Pose     string `json:"pose"`
	Skin     string `json:"skin"`
	Rules    string `json:"rules"`
	Wardrobe string `json:"wardrobe"`
}

type productShotPrompt struct {
	OutputFormat  outputFormat `json:"output_format"`
	Task          string       `json:"task"`
	Context       shotContext  `json:"context"`
	TextReference string       `json:"text_reference"`
	Engraving     engraving    `json:"engraving"`
	Camera        camera       `json:"camera"`
	Background    backdrop     `json:"background"`
	AbsoluteRules string       `json:"absolute_rules"`
}

type onBodyPrompt struct {
	Task          string      `json:"task"`
	Context       shotContext `json:"context"`
	Body          body        `json:"body"`
	Camera        camera      `json:"camera"`
	TextReference string      `json:"text_reference"`
	Engraving     engraving   `json:"engraving"`
	AbsoluteRules string      `json:"absolute_rules"`
}

// ProductShot builds the prompt for the piece alone on a background keyed to
// the metal tint.
func ProductShot(spec models.DesignSpec, shot Shot) string {
	v := VariationFor(shot.Variation)
	jewelryType := orDefault(spec.JewelryType, defaultJewelry)
	metal := metalLabel(spec)

	var instruction string
	switch {
	case shot.HeroAnchored:
		instruction = "The attached image is the approved hero render of this exact piece. Reproduce the SAME piece with the same shape, engraving and decoration. Change only the camera angle and lighting described below."
	case shot.HasReference:
		instruction = "Use the attached reference image as the base piece. Engrave the customer's name onto it and create a product shot that keeps its aesthetic."
	default:
		instruction = fmt.Sprintf("Design a beautiful %s from scratch in %s.", jewelryType, metal)
	}

	p := productShotPrompt{
		OutputFormat: outputFormat{
			AspectRatio: "1:1 square",
			Resolution:  "high resolution, minimum 1024x1024 pixels",
			Instruction: "Generate a SQUARE image. Width and height must be equal.",
		},
		Task: "PRODUCT_SHOT",
		Context: shotContext{
			JewelryType:       jewelryType,
			Metal:             metal,
			Decoration:        lookup(decorationStyles, string(spec.Style), defaultDecoration),
			SizeFeel:          lookup(sizeFeels, string(spec.Size), defaultSizeFeel),
			DesignStyle:       orDefault(spec.DesignStyle, defaultAesthetic),
			HasReferenceImage: shot.HasReference || shot.HeroAnchored,
			Instruction:       instruction,
		},
		TextReference: textReference(spec.Name, spec.Language),
		Engraving: engraving{
			Text:         spec.Name,
			FontStyle:    lookup(fontStyles, spec.Font, defaultFont),
			Physics:      engravingPhysics,
			TextAccuracy: textAccuracy(spec.Name),
			Legibility:   fmt.Sprintf("The engraved name '%s' MUST be clearly legible and prominent. It is the hero element of this photograph.", spec.Name),
		},
		Camera: camera{
			Angle:      v.Camera,
			Lighting:   v.Lighting,
			Feel:       v.Feel,
			Lens:       "85mm macro, f/2.8",
			Resolution: "ultra-crisp, photorealistic, 8K detail",
		},
		Background: backdrop{
			Description: background(spec.MetalType),
			Composition: "centered, no props, no humans",
			Style:       "luxury jewelry catalog photography",
		},
		AbsoluteRules: absoluteRules(shot.HasReference || shot.HeroAnchored, spec.MetalType),
	}

	return render(p)
}

// OnBody builds the prompt for the piece worn on the body part mapped from
// its jewelry type, framed so the wearer's face never appears.
func OnBody(spec models.DesignSpec, shot Shot) string {
	v := VariationFor(shot.Variation)
	jewelryType := orDefault(spec.JewelryType, defaultJewelry)
	metal := metalLabel(spec)

	placement, ok := bodyPlacements[jewelryType]
	if !ok {
		placement = bodyPlacements[defaultJewelry]
	}

	var instruction string
	switch {
	case shot.HeroAnchored:
		instruction = "The attached image is the approved render of this exact piece. Show the SAME piece being worn, identical shape, engraving and decoration."
	case shot.HasReference:
		instruction = "The attached reference shows the jewelry style. Generate an on-body lifestyle shot of the piece being worn."
	default:
		instruction = fmt.Sprintf("Generate an on-body lifestyle shot of a %s in %s being worn.", jewelryType, metal)
	}

	p := onBodyPrompt{
		Task: "ON_BODY_SHOT",
		Context: shotContext{
			JewelryType:       jewelryType,
			Metal:             metal,
			Decoration:        lookup(decorationStyles, string(spec.Style), defaultDecoration),
			SizeFeel:          lookup(sizeFeels, string(spec.Size), defaultSizeFeel),
			DesignStyle:       orDefault(spec.DesignStyle, defaultAesthetic),
			StyleReference:    "high jewelry editorial campaign quality",
			HasReferenceImage: shot.HasReference || shot.HeroAnchored,
			Instruction:       instruction,
		},
		Body: body{
			Part:     placement.Part,
			Framing:  placement.Framing,
			Pose:     placement.Pose,
			Skin:     "natural warm-toned skin, healthy glow",
			Rules:    placement.Rules,
			Wardrobe: "minimal or absent, bare skin or simple neutral fabric that does not compete with the jewelry",
		},
		Camera: camera{
			Angle:        v.Camera,
			Lighting:     v.Lighting,
			Feel:         v.Feel,
			Lens:         "85mm, f/1.8, creamy bokeh",
			DepthOfField: "shallow, jewelry tack-sharp, background and skin softly blurred",
			Resolution:   "ultra-crisp, photorealistic, 8K detail",
		},
		TextReference: textReference(spec.Name, spec.Language),
		Engraving: engraving{
			Text:         spec.Name,
			FontStyle:    lookup(fontStyles, spec.Font, defaultFont),
			Physics:      engravingPhysics,
			TextAccuracy: textAccuracy(spec.Name),
		},
		AbsoluteRules: absoluteRules(shot.HasReference || shot.HeroAnchored, spec.MetalType),
	}

	return render(p)
}

func render(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Only plain strings and bools are marshalled here.
		panic(err)
	}
	return string(out)
}
