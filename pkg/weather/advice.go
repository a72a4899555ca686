package weather

import "strings"

// FieldAdvice derives rule-based agricultural guidance from a snapshot.
// Thresholds follow common Kerala field practice; the fallback line is
// returned when no rule fires.
func FieldAdvice(s *Snapshot) []string {
	var advice []string

	switch {
	case s.Temperature < 10:
		advice = append(advice, "Cold weather detected. Consider protecting sensitive crops with covers or greenhouses.")
	case s.Temperature > 35:
		advice = append(advice, "Hot weather detected. Ensure adequate irrigation and consider shade for heat-sensitive crops.")
	case s.Temperature >= 20 && s.Temperature <= 30:
		advice = append(advice, "Optimal temperature range for most crops. Good time for planting and growth activities.")
	}

	if s.Humidity > 80 {
		advice = append(advice, "High humidity detected. Watch for fungal diseases and ensure good air circulation.")
	} else if s.Humidity < 30 {
		advice = append(advice, "Low humidity detected. Increase irrigation frequency and consider mulching to retain moisture.")
	}

	if s.WindSpeed > 10 {
		advice = append(advice, "Strong winds detected. Secure any temporary structures and avoid spraying pesticides.")
	}

	desc := strings.ToLower(s.Description)
	switch {
	case strings.Contains(desc, "rain"):
		advice = append(advice, "Rainy conditions. Avoid field work and check drainage systems.")
	case strings.Contains(desc, "clear"), strings.Contains(desc, "sunny"):
		advice = append(advice, "Clear weather. Good conditions for field work, planting, and harvesting.")
	case strings.Contains(desc, "cloud"):
		advice = append(advice, "Cloudy conditions. Suitable for transplanting and reducing plant stress.")
	}

	if len(advice) == 0 {
		return []string{"Weather conditions are generally favorable for agricultural activities."}
	}
	return advice
}
