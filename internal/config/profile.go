package config

// SpendingProfile is a monthly budget preset offered during setup.
type SpendingProfile struct {
	Name        string
	MonthlyUSD  float64
	Description string
}

// SpendingProfiles lists the built-in presets, smallest first.
var SpendingProfiles = []SpendingProfile{
	{Name: "light", MonthlyUSD: 30, Description: "A few essentials"},
	{Name: "typical", MonthlyUSD: 75, Description: "Streaming plus a couple of tools"},
	{Name: "heavy", MonthlyUSD: 150, Description: "Family plans and work software"},
}

// SuggestProfile picks the smallest preset whose budget covers the given
// monthly spend with 20% headroom, defaulting to the largest.
func SuggestProfile(monthlySpend float64) SpendingProfile {
	for _, p := range SpendingProfiles {
		if monthlySpend*1.2 <= p.MonthlyUSD {
			return p
		}
	}
	return SpendingProfiles[len(SpendingProfiles)-1]
}
