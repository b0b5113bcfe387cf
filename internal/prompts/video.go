package prompts

import (
	"fmt"
	"strings"

	"jewelry-studio-backend/internal/models"
)

// Video builds the motion prompt for a short commercial. The piece itself
// comes from the source frame, so only camera, light and setting are
// described.
func Video(jewelryType string, metal models.MetalTint, karat models.Karat) string {
	jewelryType = orDefault(jewelryType, "name_pendant")
	tint := orDefault(string(metal), string(models.MetalYellow))

	motion := lookup(cameraMotions, jewelryType, cameraMotions[defaultJewelry])
	lighting := lookup(videoLighting, tint, videoLighting[string(models.MetalYellow)])

	return strings.Join([]string{
		fmt.Sprintf("Camera motion: %s.", motion),
		"",
		fmt.Sprintf("Lighting: %s.", lighting),
		"",
		fmt.Sprintf("Subject: a %s %s gold %s, professional jewelry commercial quality.", orDefault(string(karat), "21K"), tint, jewelryType),
		"",
		"Environment: dark gradient background from deep charcoal (#1A1A1A) at the edges to near-black (#0D0D0D) at center, clean and minimal, no props.",
		"",
		"Style: luxury jewelry commercial, smooth cinematic camera movement, metal surfaces catching and reflecting light as the camera moves, ultra-sharp focus on the piece throughout, subtle sparkle on stones and polished surfaces, no shaking, no sudden movements.",
		"",
		"Duration: 4-6 seconds, single continuous take, no cuts.",
	}, "\n")
}

// VideoNegative lists what the video model must avoid.
func VideoNegative() string {
	return strings.Join(videoNegatives, ", ")
}
