package model

func floatPtr(v float64) *float64 { return &v }

// SampleBuyers returns the built-in demo buyer network, used by the
// init-buyers endpoint and the seed command.
func SampleBuyers() []Buyer {
	return []Buyer{
		{
			BuyerID:         "B001",
			CompanyName:     "Swift Local Movers",
			ContactEmail:    "contact@swiftlocal.com",
			ServiceAreas:    []string{"Texas", "Austin"},
			AcceptsTiers:    []Tier{TierSilver, TierBronze},
			MaxDistance:     floatPtr(50),
			Specialties:     []string{"local", "apartments"},
			Rating:          4.6,
			ResponseTimeAvg: 45,
			ConversionRate:  0.25,
			CreditBalance:   1000.0,
			Active:          true,
		},
		{
			BuyerID:         "B002",
			CompanyName:     "Premier Moving Services",
			ContactEmail:    "sales@premiermove.com",
			ServiceAreas:    []string{Nationwide},
			AcceptsTiers:    []Tier{TierPlatinum, TierGold},
			Specialties:     []string{"long_distance", "white_glove"},
			Rating:          4.9,
			ResponseTimeAvg: 20,
			ConversionRate:  0.45,
			CreditBalance:   5000.0,
			Active:          true,
		},
		{
			BuyerID:         "B003",
			CompanyName:     "College Town Movers",
			ContactEmail:    "info@collegetownmovers.com",
			ServiceAreas:    []string{"Texas", "Austin", "Dallas"},
			AcceptsTiers:    []Tier{TierSilver, TierBronze},
			MaxDistance:     floatPtr(75),
			Specialties:     []string{"students", "small_moves"},
			Rating:          4.5,
			ResponseTimeAvg: 60,
			ConversionRate:  0.30,
			CreditBalance:   750.0,
			Active:          true,
		},
	}
}
