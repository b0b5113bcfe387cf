package prompts

import (
	"fmt"

	"jewelry-studio-backend/internal/models"
)

type scratchShape struct {
	JewelryType string `json:"jewelry_type"`
	DesignStyle string `json:"design_style"`
	Silhouette  string `json:"silhouette"`
}

type scratchMaterial struct {
	Metal          string `json:"metal"`
	Finish         string `json:"finish"`
	SurfaceQuality string `json:"surface_quality"`
}

type scratchStyle struct {
	Aesthetic      string   `json:"aesthetic"`
	Decoration     string   `json:"decoration"`
	Considerations []string `json:"considerations"`
}

type scratchChain struct {
	Type     string `json:"type"`
	Material string `json:"material"`
	Length   string `json:"length"`
}

type designStep struct {
	Instruction string          `json:"instruction"`
	Shape       scratchShape    `json:"shape"`
	Material    scratchMaterial `json:"material"`
	Style       scratchStyle    `json:"style"`
	Chain       any             `json:"chain"`
}

type placement struct {
	Rules    []string `json:"rules"`
	SizeFeel string   `json:"size_feel"`
}

type engraveStep struct {
	Instruction   string    `json:"instruction"`
	TextReference string    `json:"text_reference"`
	NameToEngrave string    `json:"name_to_engrave"`
	FontStyle     string    `json:"font_style"`
	Placement     placement `json:"placement"`
	Physics       string    `json:"physics"`
	TextAccuracy  string    `json:"text_accuracy"`
}

type environment struct {
	Background  string `json:"background"`
	Props       string `json:"props"`
	Composition string `json:"composition"`
}

type renderStep struct {
	Instruction   string      `json:"instruction"`
	Environment   environment `json:"environment"`
	Camera        camera      `json:"camera"`
	Style         string      `json:"style"`
	AbsoluteRules string      `json:"absolute_rules"`
}

type fromScratchPrompt struct {
	Step1 designStep  `json:"STEP_1_design_piece"`
	Step2 engraveStep `json:"STEP_2_engrave_name"`
	Step3 renderStep  `json:"STEP_3_final_render"`
}

// FromScratch builds the prompt used when no reference image exists. The
// model designs the physical piece first and only then places the name, so
// the surface area is planned around it.
func FromScratch(spec models.DesignSpec, variation int) string {
	v := VariationFor(variation)
	jewelryType := orDefault(spec.JewelryType, defaultJewelry)
	aesthetic := orDefault(spec.DesignStyle, defaultAesthetic)
	metal := metalLabel(spec)
	font := lookup(fontStyles, spec.Font, defaultFont)

	silhouette := fmt.Sprintf("A %s %s with a prominent, elegant surface for engraving", aesthetic, jewelryType)
	if jewelryType == "name_pendant" {
		silhouette = fmt.Sprintf("The word '%s' written in %s IS the pendant shape, the letters formed from solid metal as one continuous piece", spec.Name, font)
	}

	var chain any = "none"
	if needsChain(jewelryType) {
		chain = scratchChain{
			Type:     "delicate matching gold chain with spring ring clasp",
			Material: metal + ", matching the pendant",
			Length:   "adjustable, shown draping naturally",
		}
	}

	p := fromScratchPrompt{
		Step1: designStep{
			Instruction: fmt.Sprintf("Design a beautiful custom %s %s from scratch. Decide shape, proportion and where the customer's name will be engraved BEFORE finalizing the form.", aesthetic, jewelryType),
			Shape: scratchShape{
				JewelryType: jewelryType,
				DesignStyle: aesthetic,
				Silhouette:  silhouette,
			},
			Material: scratchMaterial{
				Metal:          "solid " + metal,
				Finish:         "high polish with warm luster",
				SurfaceQuality: "flawless, mirror-like where polished, with realistic micro-reflections",
			},
			Style: scratchStyle{
				Aesthetic:  aesthetic,
				Decoration: lookup(decorationStyles, string(spec.Style), defaultDecoration),
				Considerations: []string{
					fmt.Sprintf("This is a %s %s, keep the design true to that style", aesthetic, jewelryType),
					"Plan where the name will be engraved BEFORE designing the shape",
					"Leave a prominent, elegant surface area for the name",
					"The name is the hero element, design the piece around it",
				},
			},
			Chain: chain,
		},
		Step2: engraveStep{
			Instruction:   "Integrate the customer's name as an engraved element on the piece designed in step 1.",
			TextReference: textReference(spec.Name, spec.Language),
			NameToEngrave: spec.Name,
			FontStyle:     font,
			Placement: placement{
				Rules: []string{
					"Place the name in the most prominent, natural location on the piece",
					"The engraving looks intentional, as if the piece was designed for this name",
					"Scale the text proportionally to the piece",
					"Text follows the 3D curvature of the surface",
				},
				SizeFeel: lookup(sizeFeels, string(spec.Size), defaultSizeFeel),
			},
			Physics:      engravingPhysics,
			TextAccuracy: textAccuracy(spec.Name),
		},
		Step3: renderStep{
			Instruction: "Render the final product photograph of the completed piece with engraving.",
			Environment: environment{
				Background:  background(spec.MetalType),
				Props:       "none, the jewelry is the only object in frame",
				Composition: "centered, clean, catalog-ready",
			},
			Camera: camera{
				Angle:      v.Camera,
				Lighting:   v.Lighting,
				Feel:       v.Feel,
				Lens:       "85mm macro, f/2.8",
				Resolution: "ultra-crisp, photorealistic, 8K detail",
			},
			Style:         "luxury jewelry catalog photography",
			AbsoluteRules: absoluteRules(false, spec.MetalType),
		},
	}

	return render(p)
}
