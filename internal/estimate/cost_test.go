package estimate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/model"
)

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		BaseRate:             150,
		MileageRate:          2.50,
		MaterialsBase:        50,
		SpecialItemSurcharge: 100,
		DefaultMultiplier:    1.5,
		SizeMultipliers: map[string]float64{
			"studio": 1.0,
			"1br":    1.2,
			"2-3br":  1.8,
			"4+br":   2.5,
			"office": 2.0,
		},
	}
}

func TestEstimate_StudioZeroDistance(t *testing.T) {
	c := NewCalculator(testPricing())
	est := c.Estimate(0, model.SizeStudio, nil)

	assert.Equal(t, 150.0, est.Labor)
	assert.Equal(t, 0.0, est.TruckTravel)
	assert.Equal(t, 50.0, est.Materials)
	assert.Equal(t, 200.0, est.Typical)
	assert.Equal(t, 160.0, est.Low)
	assert.Equal(t, 240.0, est.High)
}

func TestEstimate_UnknownSizeUsesDefault(t *testing.T) {
	c := NewCalculator(testPricing())

	missing := c.Estimate(0, "", nil)
	bogus := c.Estimate(0, model.MoveSize("mansion"), nil)

	// labor 150*1.5=225, materials 50*1.5=75, typical 300.
	assert.Equal(t, 300.0, missing.Typical)
	assert.Equal(t, bogus, missing)
}

func TestEstimate_SizeMultipliers(t *testing.T) {
	c := NewCalculator(testPricing())

	tests := []struct {
		size  model.MoveSize
		labor float64
	}{
		{model.SizeStudio, 150},
		{model.SizeOneBR, 180},
		{model.SizeTwoBR, 270},
		{model.SizeFourBR, 380}, // 375 rounds to 380
		{model.SizeOffice, 300},
	}
	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			est := c.Estimate(0, tt.size, nil)
			assert.Equal(t, tt.labor, est.Labor)
		})
	}
}

func TestEstimate_MonotonicInDistance(t *testing.T) {
	c := NewCalculator(testPricing())

	prev := -1.0
	for _, miles := range []float64{0, 10, 50, 100, 500, 1500} {
		est := c.Estimate(miles, model.SizeOneBR, nil)
		assert.GreaterOrEqual(t, est.Typical, prev, "typical must not decrease with distance")
		prev = est.Typical
	}
}

func TestEstimate_MonotonicInSpecialItems(t *testing.T) {
	c := NewCalculator(testPricing())

	var items []string
	prev := -1.0
	for i := 0; i < 4; i++ {
		est := c.Estimate(100, model.SizeTwoBR, items)
		assert.GreaterOrEqual(t, est.Typical, prev)
		prev = est.Typical
		items = append(items, fmt.Sprintf("item-%d", i))
	}

	// Each item adds exactly the surcharge.
	none := c.Estimate(100, model.SizeTwoBR, nil)
	two := c.Estimate(100, model.SizeTwoBR, []string{"piano", "safe"})
	assert.Equal(t, none.Typical+200, two.Typical)
}

func TestEstimate_AllComponentsNonNegative(t *testing.T) {
	c := NewCalculator(testPricing())
	est := c.Estimate(0, model.SizeStudio, nil)

	assert.GreaterOrEqual(t, est.Low, 0.0)
	assert.GreaterOrEqual(t, est.High, 0.0)
	assert.GreaterOrEqual(t, est.Typical, 0.0)
	assert.GreaterOrEqual(t, est.Labor, 0.0)
	assert.GreaterOrEqual(t, est.TruckTravel, 0.0)
	assert.GreaterOrEqual(t, est.Materials, 0.0)
}

func TestRoundTen(t *testing.T) {
	assert.Equal(t, 200.0, roundTen(200))
	assert.Equal(t, 200.0, roundTen(204.9))
	assert.Equal(t, 210.0, roundTen(205))
	assert.Equal(t, 0.0, roundTen(0))
}
