package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
)

type languageOption struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Options serves the static choices the UI is built from
func Options(c *fiber.Ctx) error {
	langs := features.Languages()
	languages := make([]languageOption, len(langs))
	for i, l := range langs {
		languages[i] = languageOption{Name: l.Name(), Code: l.Code()}
	}

	names := func(family features.Family) []string {
		return features.NewSet(features.All(family)...).Names()
	}

	return c.JSON(fiber.Map{
		"languages":        languages,
		"default_language": features.DefaultLanguage.Name(),
		"features": fiber.Map{
			string(features.FamilyTranscription): names(features.FamilyTranscription),
			string(features.FamilyIntelligence):  names(features.FamilyIntelligence),
		},
		"unsupported": features.Table(),
	})
}
