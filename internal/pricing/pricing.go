// Package pricing computes price breakdowns for custom pieces from the live
// gold price.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"jewelry-studio-backend/internal/models"
)

const (
	Currency = "AED"

	// DefaultGoldPricePerGram is used when no gold price snapshot exists yet.
	DefaultGoldPricePerGram = 250.0
)

type weights struct {
	GoldOnly   float64
	WithStones float64
}

var sizeWeights = map[models.Size]weights{
	models.SizeSmall:  {GoldOnly: 2.5, WithStones: 3.0},
	models.SizeMedium: {GoldOnly: 4.0, WithStones: 5.0},
	models.SizeLarge:  {GoldOnly: 6.5, WithStones: 8.0},
}

var jewelryWeights = map[string]map[models.Size]weights{
	"pendant": sizeWeights,
	"name_pendant": {
		models.SizeSmall:  {GoldOnly: 2.0, WithStones: 2.5},
		models.SizeMedium: {GoldOnly: 3.5, WithStones: 4.5},
		models.SizeLarge:  {GoldOnly: 5.5, WithStones: 7.0},
	},
	"ring": {
		models.SizeSmall:  {GoldOnly: 3.0, WithStones: 3.5},
		models.SizeMedium: {GoldOnly: 4.5, WithStones: 5.5},
		models.SizeLarge:  {GoldOnly: 6.0, WithStones: 7.5},
	},
	"bracelet": {
		models.SizeSmall:  {GoldOnly: 5.0, WithStones: 6.0},
		models.SizeMedium: {GoldOnly: 7.0, WithStones: 8.5},
		models.SizeLarge:  {GoldOnly: 9.0, WithStones: 11.0},
	},
	"earrings": {
		models.SizeSmall:  {GoldOnly: 1.5, WithStones: 2.0},
		models.SizeMedium: {GoldOnly: 2.5, WithStones: 3.0},
		models.SizeLarge:  {GoldOnly: 3.5, WithStones: 4.5},
	},
}

var karatFactors = map[models.Karat]float64{
	models.Karat18: 0.750,
	models.Karat21: 0.875,
	models.Karat22: 0.916,
}

var laborCosts = map[models.Size]float64{
	models.SizeSmall:  150,
	models.SizeMedium: 250,
	models.SizeLarge:  400,
}

var stoneCosts = map[models.DecorationStyle]map[models.Size]float64{
	models.StyleGoldWithStones: {
		models.SizeSmall:  200,
		models.SizeMedium: 400,
		models.SizeLarge:  700,
	},
	models.StyleGoldWithDiamonds: {
		models.SizeSmall:  500,
		models.SizeMedium: 900,
		models.SizeLarge:  1500,
	},
}

// Markup percentages by decoration style.
var markupPercents = map[models.DecorationStyle]int64{
	models.StyleGoldOnly:         80,
	models.StyleGoldWithStones:   100,
	models.StyleGoldWithDiamonds: 120,
}

// Input is everything a price depends on.
type Input struct {
	Karat            models.Karat
	Size             models.Size
	Style            models.DecorationStyle
	JewelryType      string
	GoldPricePerGram float64
}

// Weight looks up the piece weight in grams. Unmapped jewelry types use the
// generic size table and decorated styles weigh more than plain gold.
func Weight(jewelryType string, size models.Size, style models.DecorationStyle) float64 {
	table, ok := jewelryWeights[jewelryType]
	if !ok {
		table = sizeWeights
	}
	w, ok := table[size]
	if !ok {
		w = sizeWeights[models.SizeMedium]
	}
	if style == models.StyleGoldOnly {
		return w.GoldOnly
	}
	return w.WithStones
}

// KaratFactor returns the pure gold mass fraction of a karat rating.
func KaratFactor(karat models.Karat) float64 {
	if f, ok := karatFactors[karat]; ok {
		return f
	}
	return karatFactors[models.Karat18]
}

// Calculate prices a piece. The result depends only on its input; the clock
// only stamps the breakdown.
func Calculate(in Input, now time.Time) models.PriceBreakdown {
	weight := decimal.NewFromFloat(Weight(in.JewelryType, in.Size, in.Style))
	factor := decimal.NewFromFloat(KaratFactor(in.Karat))
	goldPrice := decimal.NewFromFloat(in.GoldPricePerGram)

	material := weight.Mul(factor).Mul(goldPrice)
	labor := decimal.NewFromFloat(laborCosts[in.Size])
	stones := decimal.NewFromFloat(stoneCosts[in.Style][in.Size])

	subtotal := material.Add(labor).Add(stones)
	percent, ok := markupPercents[in.Style]
	if !ok {
		percent = markupPercents[models.StyleGoldOnly]
	}
	// Only reported figures are rounded; the total is taken from the exact sum.
	markup := subtotal.Mul(decimal.NewFromInt(percent)).Div(decimal.NewFromInt(100))
	total := subtotal.Add(markup).Round(0)

	return models.PriceBreakdown{
		Weight:           weight.InexactFloat64(),
		MaterialCost:     material.Round(0).InexactFloat64(),
		LaborCost:        labor.InexactFloat64(),
		StoneCost:        stones.InexactFloat64(),
		Markup:           markup.Round(0).InexactFloat64(),
		Total:            total.InexactFloat64(),
		Currency:         Currency,
		GoldPricePerGram: in.GoldPricePerGram,
		UpdatedAt:        now.UTC(),
	}
}
