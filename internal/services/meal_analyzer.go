package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/amelfit-backend/internal/nutrition"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/platform/openai"
)

type MealInput struct {
	ImageBase64 string
	Description string
	MealType    string
}

// MealAnalyzer turns a photo or a description into food items. It never fails: any upstream
// or parse error yields nutrition.FallbackClassification.
type MealAnalyzer interface {
	Analyze(ctx context.Context, in MealInput) nutrition.Classification
}

const mealClassifierSystemPrompt = `You are a nutrition assistant. Identify every food in the meal and estimate its portion and nutrition.
Answer with a single JSON object and nothing else:
{"foods":[{"name":"...","quantity":"...","calories":0,"proteins":0,"carbs":0,"fats":0}],"analysis":"..."}
calories is an integer in kcal, macros are grams. analysis is one or two short sentences of advice.`

type mealAnalyzer struct {
	log     *logger.Logger
	ai      openai.Client
	metrics *observability.Metrics
}

// NewMealAnalyzer accepts a nil client; every analysis then uses the fallback estimate.
func NewMealAnalyzer(log *logger.Logger, ai openai.Client, metrics *observability.Metrics) MealAnalyzer {
	return &mealAnalyzer{
		log:     log.With("service", "MealAnalyzer"),
		ai:      ai,
		metrics: metrics,
	}
}

func (m *mealAnalyzer) Analyze(ctx context.Context, in MealInput) nutrition.Classification {
	raw, err := m.classify(ctx, in)
	if err == nil {
		var out nutrition.Classification
		out, err = nutrition.ParseClassification(raw)
		if err == nil {
			return out
		}
	}
	m.log.Warn("meal classification failed, using fallback", "error", err)
	m.metrics.IncClassifierFallback()
	return nutrition.FallbackClassification()
}

func (m *mealAnalyzer) classify(ctx context.Context, in MealInput) (string, error) {
	if m.ai == nil {
		return "", fmt.Errorf("meal classifier not configured")
	}
	prompt := "Meal type: " + in.MealType + "."
	if d := strings.TrimSpace(in.Description); d != "" {
		prompt += "\nDescription: " + d
	}
	img := strings.TrimSpace(in.ImageBase64)
	if img == "" {
		return m.ai.GenerateText(ctx, mealClassifierSystemPrompt, prompt)
	}
	if !strings.HasPrefix(img, "data:") {
		img = "data:image/jpeg;base64," + img
	}
	return m.ai.GenerateTextWithImages(ctx, mealClassifierSystemPrompt, prompt, []openai.ImageInput{
		{ImageURL: img, Detail: "low"},
	})
}
