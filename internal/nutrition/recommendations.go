package nutrition

import "strings"

const (
	MinRecommendations = 3
	MaxRecommendations = 6
)

type recommendationRule struct {
	applies func(p BiometricProfile) bool
	message string
}

// recommendationRules are evaluated in order; each match contributes its message once.
var recommendationRules = []recommendationRule{
	{
		applies: func(p BiometricProfile) bool { return oneOf(p.Hydration, "less_1l", "1_1.5l") },
		message: "Buvez au moins 1,5 à 2 L d'eau entre l'iftar et le suhoor, par petites quantités régulières.",
	},
	{
		applies: func(p BiometricProfile) bool { return oneOf(p.SleepHours, "less_5h", "5_6h") },
		message: "Essayez de dormir au moins 6 à 7 heures, une courte sieste dans la journée peut aider.",
	},
	{
		applies: func(p BiometricProfile) bool { return ParsePreFast(p.DoesSuhoor) == PreFastNo },
		message: "Ne sautez pas le suhoor : un repas riche en fibres et protéines vous tiendra jusqu'à l'iftar.",
	},
	{
		applies: func(p BiometricProfile) bool { return ParsePreFast(p.DoesSuhoor) == PreFastSometimes },
		message: "Prenez le suhoor plus régulièrement, même léger (yaourt, flocons d'avoine, fruits).",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.EatingHabits, "frit", "fried") },
		message: "Limitez les fritures : privilégiez les cuissons au four, à la vapeur ou à la poêle sans excès d'huile.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.EatingHabits, "sucre", "sugar") },
		message: "Réduisez les pâtisseries et boissons sucrées, remplacez-les par des dattes ou des fruits frais.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.EatingHabits, "grignote", "snack") },
		message: "Après l'iftar, préférez une collation prévue à l'avance plutôt que le grignotage.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.EatingHabits, "tard", "late") },
		message: "Évitez les repas copieux tard dans la nuit, gardez un dernier repas léger.",
	},
	{
		applies: func(p BiometricProfile) bool {
			return mentions(p.EatingHabits, "envies", "craving") || mentions(p.RamadanFeelings, "fringale", "craving")
		},
		message: "Pour calmer les fringales, associez protéines et fibres à chaque repas.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.RamadanFeelings, "fatigue") },
		message: "Contre la fatigue, misez sur les glucides complets et une activité douce comme la marche.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.RamadanFeelings, "constipation") },
		message: "Augmentez les fibres (légumes, légumineuses, pruneaux) et l'hydratation pour le transit.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.RamadanFeelings, "ballonnement", "bloat") },
		message: "Contre les ballonnements, mangez lentement et limitez les boissons gazeuses.",
	},
	{
		applies: func(p BiometricProfile) bool { return mentions(p.RamadanFeelings, "perte d'énergie", "energy") },
		message: "Pour garder de l'énergie en fin de journée, répartissez mieux les glucides entre iftar et suhoor.",
	},
	{
		applies: func(p BiometricProfile) bool { return ParseGoal(p.Goal) == GoalWeightLoss },
		message: "Pour perdre du poids sereinement, gardez un déficit modéré et ne descendez pas sous 1200 kcal.",
	},
}

// genericRecommendations pads short lists. The first two are always added together; the
// third only tops up a list that had no trigger at all.
var genericRecommendations = []string{
	"Commencez l'iftar par de l'eau et quelques dattes avant le repas principal.",
	"Intégrez des légumes à chaque repas et une marche légère après l'iftar.",
	"Écoutez votre corps et ajustez les portions selon votre faim réelle.",
}

// Recommendations returns between MinRecommendations and MaxRecommendations messages.
func Recommendations(p BiometricProfile) []string {
	out := make([]string, 0, MaxRecommendations)
	for _, r := range recommendationRules {
		if r.applies(p) {
			out = append(out, r.message)
		}
	}
	if len(out) < MinRecommendations {
		out = append(out, genericRecommendations[:2]...)
	}
	for i := 2; len(out) < MinRecommendations && i < len(genericRecommendations); i++ {
		out = append(out, genericRecommendations[i])
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

func oneOf(raw string, values ...string) bool {
	v := normalize(raw)
	for _, want := range values {
		if v == want {
			return true
		}
	}
	return false
}

func mentions(items []string, fragments ...string) bool {
	for _, item := range items {
		lower := strings.ToLower(item)
		for _, f := range fragments {
			if strings.Contains(lower, f) {
				return true
			}
		}
	}
	return false
}
