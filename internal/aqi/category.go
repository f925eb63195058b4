package aqi

import (
	"math"
	"strconv"
	"strings"
)

// Tip is a short suggestion shown with a category.
type Tip struct {
	Icon string
	Text string
}

// Category is the presentation info for an AQI bucket.
type Category struct {
	Label       string
	Color       string
	Emoji       string
	Status      string
	Description string
	Tips        []Tip
}

// Categories lists the buckets from best to worst.
var Categories = []Category{
	{
		Label: "Good", Color: "#4CAF50", Emoji: "🟢",
		Status:      "Good – Air quality is excellent! 🌱",
		Description: "Air quality is considered satisfactory.",
		Tips: []Tip{
			{"✅", "Open windows for fresh air"},
			{"🧘", "Enjoy outdoor activities"},
			{"🌳", "Visit a park or garden"},
		},
	},
	{
		Label: "Satisfactory", Color: "#8BC34A", Emoji: "🟢",
		Status:      "Satisfactory – Air quality is acceptable! 🌿",
		Description: "Air quality is acceptable.",
		Tips: []Tip{
			{"✅", "Open windows for fresh air"},
			{"🧘", "Enjoy a walk outside"},
			{"📵", "Limit burning incense/smoking"},
		},
	},
	{
		Label: "Moderate", Color: "#FFEB3B", Emoji: "🟡",
		Status:      "Moderate – Sensitive groups take care! 🌤️",
		Description: "Sensitive groups may experience effects.",
		Tips: []Tip{
			{"😷", "Limit outdoor activity if sensitive"},
			{"🏠", "Keep indoor air clean"},
			{"💧", "Stay hydrated"},
		},
	},
	{
		Label: "Poor", Color: "#FF9800", Emoji: "🟠",
		Status:      "Poor – Air quality is unhealthy! 🚧",
		Description: "Everyone may begin to experience effects.",
		Tips: []Tip{
			{"😷", "Wear a mask outdoors"},
			{"🚪", "Keep windows closed"},
			{"🏃", "Avoid strenuous activity"},
		},
	},
	{
		Label: "Very Poor", Color: "#F44336", Emoji: "🔴",
		Status:      "Very Poor – Health warnings! ⚠️",
		Description: "Health warnings of emergency conditions.",
		Tips: []Tip{
			{"🚫", "Avoid outdoor activity"},
			{"🏠", "Stay indoors"},
			{"💊", "Follow medical advice"},
		},
	},
	{
		Label: "Severe", Color: "#7E0023", Emoji: "🛑",
		Status:      "Severe – Emergency conditions! 🚨",
		Description: "Health alert: everyone may experience effects.",
		Tips: []Tip{
			{"🚫", "Do not go outside"},
			{"🏠", "Seal windows and doors"},
			{"📞", "Seek medical help if needed"},
		},
	},
}

// Lookup finds the category with the given label.
func Lookup(label string) (Category, bool) {
	for _, c := range Categories {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

// ForValue buckets an AQI value using the service's thresholds.
func ForValue(v float64) string {
	switch {
	case v <= 50:
		return "Good"
	case v <= 100:
		return "Satisfactory"
	case v <= 200:
		return "Moderate"
	case v <= 300:
		return "Poor"
	case v <= 400:
		return "Very Poor"
	default:
		return "Severe"
	}
}

// Classify buckets a recorded AQI given as text. It reports false for text
// that is not a finite number.
func Classify(raw string) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return ForValue(v), true
}

// Status returns the display status for label, falling back to the label itself.
func Status(label string) string {
	if c, ok := Lookup(label); ok {
		return c.Status
	}
	return label
}

// Emoji returns the category marker, or a question mark for unknown labels.
func Emoji(label string) string {
	if c, ok := Lookup(label); ok {
		return c.Emoji
	}
	return "❓"
}
