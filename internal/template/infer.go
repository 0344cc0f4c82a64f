package template

import "strings"

// signature maps a label to the keywords that reveal it
type signature struct {
	label    string
	keywords []string
}

// DefaultProjectType is used when no project signature matches
const DefaultProjectType = "web_application"

// projectTypes is checked in order; the first signature with a keyword hit wins.
var projectTypes = []signature{
	{"saas", []string{"saas", "subscription", "billing", "tenant", "dashboard", "pricing plan"}},
	{"ecommerce", []string{"ecommerce", "e-commerce", "shop", "cart", "checkout", "product catalog", "inventory"}},
	{"mobile", []string{"mobile", "ios", "android", "react native", "flutter", "app store"}},
	{"content", []string{"blog", "content", "cms", "newsletter", "podcast", "video"}},
	{"game", []string{"game", "unity", "godot", "gameplay", "level design"}},
}

// techSignatures lists detectable technologies in output order
var techSignatures = []signature{
	{"react", []string{"react"}},
	{"vue", []string{"vue"}},
	{"angular", []string{"angular"}},
	{"nextjs", []string{"next.js", "nextjs"}},
	{"nodejs", []string{"node.js", "nodejs", "express"}},
	{"python", []string{"python", "django", "flask", "fastapi"}},
	{"ruby", []string{"ruby", "rails"}},
	{"php", []string{"php", "laravel"}},
	{"postgresql", []string{"postgres"}},
	{"mysql", []string{"mysql"}},
	{"mongodb", []string{"mongo"}},
	{"redis", []string{"redis"}},
}

// DefaultTechStack is reported when no technology is mentioned
var DefaultTechStack = []string{"javascript", "html", "css"}

// hourBand maps an estimated-hours ceiling to difficulty, audience and budget.
type hourBand struct {
	below      float64
	difficulty string
	audience   string
	budget     string
}

// hourBands is checked in order; the last band has no ceiling.
var hourBands = []hourBand{
	{40, "beginner", "Solo founders validating an idea", "Under $1k"},
	{120, "intermediate", "Small teams building an MVP", "$1k - $10k"},
	{0, "advanced", "Teams building a production product", "Over $10k"},
}

func bandFor(hours float64) hourBand {
	for _, b := range hourBands {
		if b.below == 0 || hours < b.below {
			return b
		}
	}
	return hourBands[len(hourBands)-1]
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// InferProjectType returns the first project signature found in text
func InferProjectType(text string) string {
	text = strings.ToLower(text)
	for _, sig := range projectTypes {
		if containsAny(text, sig.keywords) {
			return sig.label
		}
	}
	return DefaultProjectType
}

// InferTechStack returns every technology mentioned in text
func InferTechStack(text string) []string {
	text = strings.ToLower(text)
	var stack []string
	for _, sig := range techSignatures {
		if containsAny(text, sig.keywords) {
			stack = append(stack, sig.label)
		}
	}
	if len(stack) == 0 {
		return append([]string(nil), DefaultTechStack...)
	}
	return stack
}

// InferDifficulty maps total estimated hours to a difficulty label
func InferDifficulty(totalHours float64) string {
	return bandFor(totalHours).difficulty
}
