// Package motivation builds and generates the daily motivation text.
package motivation

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a caring, evidence-based coach."

const quitTodayIntro = "Your quit date is today; there are no measurable health improvements yet, " +
	"but this marks the very first step toward long-term well-being."

// ProgressIntro describes where the user stands relative to the quit date.
func ProgressIntro(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("Your quit date is coming up in %d days. "+
			"Use this time to prepare: visualize your success and set healthy routines.", -days)
	case days == 0:
		return quitTodayIntro
	default:
		return fmt.Sprintf("After %d days smoke-free, significant health improvements "+
			"include enhanced lung function and a steadier heart rate.", days)
	}
}

// Input is everything the prompt is built from.
type Input struct {
	Reason   string
	Goals    []string
	Days     int
	Language string
}

// BuildPrompt renders the coaching prompt asking for a JSON object with the
// five motivation fields.
func BuildPrompt(in Input) string {
	progress := ProgressIntro(in.Days)
	language := in.Language
	if language == "" {
		language = "en-us"
	}

	var b strings.Builder
	b.WriteString("You are an expert smoking-cessation coach. Produce a JSON object with exactly these keys:\n")
	fmt.Fprintf(&b, "progress, motivation, cravings, ideas, recommendations. It should be in the language %s.\n\n", language)
	b.WriteString(`{"progress": "...", "motivation": "...", "cravings": "...", "ideas": "...", "recommendations": "..."}`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "1. progress: %s\n", progress)
	b.WriteString("   Cite at least two different recent (past 6 months) peer-reviewed medical publications\n")
	b.WriteString("   or authoritative health sources.\n\n")
	fmt.Fprintf(&b, "2. motivation: A heartfelt, personalized encouragement based on the user's reason (%q)\n", in.Reason)
	fmt.Fprintf(&b, "   and goals (%s). Cite at least two recent psychology studies or expert articles.\n\n", strings.Join(in.Goals, ", "))
	b.WriteString("3. cravings: Practical strategies to handle cravings, including at least two mindfulness techniques\n")
	b.WriteString("   (e.g. mindful breathing, body scan).\n\n")
	b.WriteString("4. ideas: Creative activities or habit-replacements to keep momentum, with a brief rationale.\n\n")
	b.WriteString("5. recommendations: Other evidence-based tips. Do NOT suggest using any external apps.\n\n")
	b.WriteString("Return only valid JSON with no extra explanation or text.\n")
	return b.String()
}
