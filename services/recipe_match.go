package services

import (
	"math"
	"sort"
	"strings"

	"foodsnap/models"
)

const maxMissingIngredients = 5

// pantryTokens lowercases and trims the user's ingredients, dropping
// blanks so an empty token cannot match every line.
func pantryTokens(userIngredients []string) []string {
	tokens := make([]string, 0, len(userIngredients))
	for _, ing := range userIngredients {
		if t := strings.ToLower(strings.TrimSpace(ing)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// lineMatches reports whether a recipe ingredient line and any pantry
// token contain one another.
func lineMatches(line string, tokens []string) bool {
	l := strings.ToLower(line)
	for _, t := range tokens {
		if strings.Contains(l, t) || strings.Contains(t, l) {
			return true
		}
	}
	return false
}

// unmatchedLines returns the recipe lines not covered by the pantry, in
// recipe order.
func unmatchedLines(lines, tokens []string) []string {
	var out []string
	for _, line := range lines {
		if !lineMatches(line, tokens) {
			out = append(out, line)
		}
	}
	return out
}

// RankRecipes scores each recipe against the user's pantry and sorts by
// match percentage, best first. Ties keep the model's order.
func RankRecipes(recipes []models.Recipe, userIngredients []string) []models.RankedRecipe {
	tokens := pantryTokens(userIngredients)

	ranked := make([]models.RankedRecipe, 0, len(recipes))
	for _, r := range recipes {
		missing := unmatchedLines(r.Ingredients, tokens)
		total := len(r.Ingredients)
		matched := total - len(missing)

		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(matched) / float64(total) * 100))
		}
		if len(missing) > maxMissingIngredients {
			missing = missing[:maxMissingIngredients]
		}
		if missing == nil {
			missing = []string{}
		}

		ranked = append(ranked, models.RankedRecipe{
			Recipe:             r,
			MatchCount:         matched,
			TotalIngredients:   total,
			MatchPercentage:    pct,
			MissingIngredients: missing,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchPercentage > ranked[j].MatchPercentage
	})
	return ranked
}
