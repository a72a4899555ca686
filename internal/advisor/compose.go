package advisor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const promptPreamble = "You are a Digital Krishi Officer, an advanced AI agricultural advisor for Indian farmers. Provide comprehensive, accurate, and practical farming advice in %s.\n\nCONTEXT INFORMATION:\n\n"

const promptInstructions = `INSTRUCTIONS:
1. Provide specific, actionable advice based on the context provided
2. Consider weather conditions for farming recommendations
3. Reference the user's farming history when relevant
4. Suggest crops from the top crops list when appropriate
5. Include market price considerations when discussing crops
6. Provide soil-specific advice when soil type is mentioned
7. Keep responses practical and relevant to Indian/Kerala farming conditions
8. Include specific recommendations for pest control, fertilization, and crop management
9. Mention government schemes or subsidies when relevant
10. Provide seasonal and weather-based farming tips

FORMATTING REQUIREMENTS:
- Use **bold text** for important points and recommendations
- Use *italic text* for emphasis and technical terms
- Use bullet points (-) for lists of recommendations
- Use numbered lists (1.) for step-by-step instructions
- Use ### headings for different sections (e.g., ### Weather-Based Advice)
- Use > blockquotes for important warnings or tips
- Use ` + "`code`" + ` for specific measurements, temperatures, or technical terms
- Structure your response with clear sections for better readability

Please provide comprehensive advice that considers all available context with proper Markdown formatting.`

// LanguageName renders a BCP 47 code ("en", "hi", "ml") as its English
// display name. Anything unparseable falls back to English.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		tag = language.English
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return "English"
	}
	return name
}

// Compose renders the advisory prompt deterministically from the query
// and whatever context sections are present. Missing sections are
// omitted entirely rather than rendered empty.
func Compose(query string, c *Context, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptPreamble, LanguageName(lang))

	if c != nil {
		composeWeather(&b, c)
		composeRecords(&b, c)
		composeTopCrops(&b, c)
		composeMarket(&b, c)
	}

	fmt.Fprintf(&b, "USER QUERY: %s\n\n", query)
	b.WriteString(promptInstructions)

	return b.String()
}

func composeWeather(b *strings.Builder, c *Context) {
	w := c.Weather
	if w == nil {
		return
	}
	b.WriteString("CURRENT WEATHER CONDITIONS:\n")
	fmt.Fprintf(b, "- Location: %s\n", w.City)
	fmt.Fprintf(b, "- Temperature: %d°C\n", int(math.Round(w.Temperature)))
	fmt.Fprintf(b, "- Humidity: %d%%\n", w.Humidity)
	fmt.Fprintf(b, "- Weather: %s\n", w.Description)
	fmt.Fprintf(b, "- Wind Speed: %s m/s\n\n", formatNumber(w.WindSpeed))
}

func composeRecords(b *strings.Builder, c *Context) {
	if len(c.Records) == 0 {
		return
	}
	b.WriteString("USER'S FARMING RECORDS (Recent crops grown):\n")
	for i, r := range c.Records {
		if i >= 5 {
			break
		}
		fmt.Fprintf(b, "%d. %s - Planted: %s", i+1, r.CropName, r.PlantingDate)
		if r.SoilType != "" {
			fmt.Fprintf(b, ", Soil Type: %s", r.SoilType)
		}
		if r.Notes != "" {
			fmt.Fprintf(b, ", Notes: %s", r.Notes)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func composeTopCrops(b *strings.Builder, c *Context) {
	if c.TopCrops == nil || len(c.TopCrops.Crops) == 0 {
		return
	}
	b.WriteString("TOP CROPS IN KERALA (for reference):\n")
	for i, crop := range c.TopCrops.Crops {
		if i >= 5 {
			break
		}
		fmt.Fprintf(b, "%d. %s - Area: %s, Production: %s\n", i+1, crop.Name, crop.Area, crop.Production)
	}
	b.WriteByte('\n')
}

func composeMarket(b *strings.Builder, c *Context) {
	m := c.Market
	if m == nil {
		return
	}
	fmt.Fprintf(b, "MARKET DATA FOR %s:\n", strings.ToUpper(m.CropName))
	fmt.Fprintf(b, "- Current Month: %s\n", m.Month)
	fmt.Fprintf(b, "- Average Price: ₹%.2f per unit\n", m.Summary.AvgPrice)
	fmt.Fprintf(b, "- Price Range: ₹%s - ₹%s\n", formatNumber(m.Summary.PriceRange.Min), formatNumber(m.Summary.PriceRange.Max))
	fmt.Fprintf(b, "- Districts with data: %d\n\n", m.Summary.TotalDistricts)
}

// formatNumber trims trailing zeros the way the rest of the pipeline
// renders cell values: 18.5 stays "18.5", 120 stays "120".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
