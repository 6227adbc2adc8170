package genai

// Safety levels selectable in the UI, mapped to Gemini harm-block thresholds.
const (
	SafetyMinimum = "Minimum"
	SafetyLow     = "Low"
	SafetyMedium  = "Medium"
	SafetyHigh    = "High"
)

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// blockThreshold maps a safety level to the Gemini threshold value.
// Unknown or empty levels fall back to BLOCK_NONE, the app default.
func blockThreshold(level string) string {
	switch level {
	case SafetyLow:
		return "BLOCK_ONLY_HIGH"
	case SafetyMedium:
		return "BLOCK_MEDIUM_AND_ABOVE"
	case SafetyHigh:
		return "BLOCK_LOW_AND_ABOVE"
	default:
		return "BLOCK_NONE"
	}
}

// safetySettings expands a safety level into per-category settings covering
// all four harm categories.
func safetySettings(level string) []safetySetting {
	threshold := blockThreshold(level)
	settings := make([]safetySetting, 0, len(harmCategories))
	for _, category := range harmCategories {
		settings = append(settings, safetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}
