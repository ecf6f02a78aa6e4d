package motivation

import (
	"context"
	"fmt"
	"strings"

	accountmodels "io.winapps.smokefree/internal/models/account"
)

var cravingTips = []string{
	"When a craving hits, try box breathing: in for four, hold for four, out for four, hold for four. Then do a short body scan from head to toes and notice where the tension sits. Most cravings fade within ten minutes.",
	"Name the craving out loud and rate it from 1 to 10, then take ten slow breaths and rate it again. Follow with a glass of water and a two-minute walk.",
	"Try urge surfing: picture the craving as a wave that rises, peaks and falls. Breathe slowly through it and notice the physical sensations without acting on them.",
}

var ideaTips = []string{
	"Swap the smoke break for a short walk around the block. Movement releases the same tension and builds a new cue-routine pair.",
	"Keep your hands busy: a stress ball, a pen, or a few minutes of sketching breaks the hand-to-mouth habit.",
	"Put the money you would have spent into a jar you can see every day, and decide now what it is going to pay for.",
}

// TemplateGenerator writes a motivation without calling a model. It is used
// when no API key is configured.
type TemplateGenerator struct{}

func (TemplateGenerator) Name() string { return "template" }

func (TemplateGenerator) Generate(_ context.Context, in Input) (accountmodels.MotivationText, error) {
	i := in.Days
	if i < 0 {
		i = -i
	}

	motivation := "Every smoke-free hour is a vote for the person you want to be."
	if in.Reason != "" {
		motivation = fmt.Sprintf("You chose to quit because %q. Keep that reason close today.", in.Reason)
	}
	if len(in.Goals) > 0 {
		motivation += " Your goals: " + strings.Join(in.Goals, "; ") + "."
	}

	recommendations := "Drink plenty of water and get enough sleep. Tell someone you trust about your progress."
	return accountmodels.MotivationText{
		Progress:        ProgressIntro(in.Days),
		Motivation:      motivation,
		Cravings:        cravingTips[i%len(cravingTips)],
		Ideas:           ideaTips[i%len(ideaTips)],
		Recommendations: &recommendations,
	}, nil
}
