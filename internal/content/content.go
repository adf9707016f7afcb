// Package content holds the static pages and sample data rendered by the
// More subtree. Pure presentation data with no behavior.
package content

import "github.com/nutriscan-ai/supplement-platform/internal/model"

// Page is one static page.
type Page struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

var pages = map[string]Page{
	"disclaimer": {
		Slug:  "disclaimer",
		Title: "Medical Disclaimer",
		Body: []string{
			"The content provided by NutriScan AI is for informational and educational purposes only and is not intended to be a substitute for professional medical advice, diagnosis, or treatment.",
			"Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition, dietary changes, or supplement use.",
			"Never disregard professional medical advice or delay in seeking it because of something you have read on this application.",
		},
	},
	"about": {
		Slug:  "about",
		Title: "App Info",
		Body: []string{
			"NutriScan AI, Version 1.0.0.",
			"Designed to simplify supplement science and help you achieve your health goals safely.",
		},
	},
	"about-us": {
		Slug:  "about-us",
		Title: "Our Mission",
		Body: []string{
			"NutriScan AI was founded by a team of clinical nutritionists and AI engineers who realized that the supplement industry is often confusing and poorly regulated.",
			"Our goal is to bring transparency to the market by providing instant, evidence-based analysis of every supplement you encounter. We believe everyone deserves to know exactly what they are putting into their bodies.",
		},
	},
	"privacy": {
		Slug:  "privacy",
		Title: "Privacy Policy",
		Body: []string{
			"At NutriScan AI, we take your privacy seriously. This policy explains how we collect, use, and protect your information.",
			"Data Collection: We collect images you scan and health profile data you provide to give accurate supplement recommendations.",
			"Usage: Your data is used solely for enhancing your experience and is never sold to third-party supplement manufacturers.",
			"Security: We use industry-standard encryption to protect your profile and scan history.",
		},
	},
	"terms": {
		Slug:  "terms",
		Title: "Terms & Conditions",
		Body: []string{
			"By using NutriScan AI, you agree to the following terms. Please read them carefully.",
			"No Medical Advice: The content provided is for informational purposes only. It is not a substitute for professional medical diagnosis or treatment.",
			"User Responsibility: You are responsible for consulting a physician before starting any new supplement regimen based on our data.",
			"Limitation of Liability: NutriScan AI is not liable for any adverse reactions or health complications resulting from supplement use.",
		},
	},
	"contact": {
		Slug:  "contact",
		Title: "Contact Support",
		Body: []string{
			"Have a question or feedback? We'd love to hear from you.",
			"We'll get back to you within 24 hours.",
		},
	},
}

// GetPage looks up a static page by slug.
func GetPage(slug string) (Page, bool) {
	p, ok := pages[slug]
	return p, ok
}

// SampleHistory returns the demo scan history shown on the History page.
func SampleHistory() []model.ProductReview {
	return []model.ProductReview{
		{
			ProductName: "Gold Standard Whey",
			Brand:       "Optimum Nutrition",
			Description: "A popular whey protein isolate blend designed for muscle support and recovery.",
			Ingredients: []model.IngredientAssessment{
				{Name: "Whey Protein Isolate", EfficacyRating: model.EfficacyHigh, SafetyRating: model.SafetySafe, Description: "Fast-absorbing protein source ideal for post-workout recovery."},
				{Name: "BCAAs", EfficacyRating: model.EfficacyHigh, SafetyRating: model.SafetySafe, Description: "Essential amino acids that aid in muscle synthesis."},
			},
			ScientificResearch:   "Extensive clinical studies support whey protein's ability to stimulate muscle protein synthesis.",
			SafetyConsiderations: "Safe for most adults. Contains dairy/lactose. May cause bloating in sensitive individuals.",
			RecommendedDosage:    "24-30g protein post-workout.",
			QualityAssessment:    "High quality evidence supporting efficacy.",
			OverallVerdict:       "Excellent choice for muscle building and recovery.",
		},
		{
			ProductName: "Creatine Monohydrate",
			Brand:       "Generic",
			Description: "Micronized creatine powder for strength and power output.",
			Ingredients: []model.IngredientAssessment{
				{Name: "Creatine Monohydrate", EfficacyRating: model.EfficacyHigh, SafetyRating: model.SafetySafe, Description: "The most researched form of creatine."},
			},
			ScientificResearch:   "Proven to increase physical performance in successive bursts of short-term, high intensity exercise.",
			SafetyConsiderations: "Generally safe. Drink plenty of water to avoid cramping.",
			RecommendedDosage:    "3-5g daily.",
			QualityAssessment:    "Gold standard evidence.",
			OverallVerdict:       "Highly recommended for strength athletes.",
		},
	}
}
