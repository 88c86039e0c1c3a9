package request

import (
	"reflect"
	"testing"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
)

func langPtr(l features.Language) *features.Language { return &l }

func TestBuildExplicitLanguage(t *testing.T) {
	sel := selection.Selection{
		Transcription: features.NewSet(features.SpeakerLabels),
		Intelligence:  features.NewSet(features.Summarization, features.TopicDetection),
	}

	flags, err := Build(sel, langPtr(features.BritishEnglish))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Flags{
		"speaker_labels": true,
		"auto_chapters":  true,
		"iab_categories": true,
		"language_code":  "en_uk",
	}
	if !reflect.DeepEqual(flags, want) {
		t.Fatalf("flags = %v, want %v", flags, want)
	}
}

func TestBuildDefaultsLanguage(t *testing.T) {
	flags, err := Build(selection.NewSelection(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if code, _ := flags.LanguageCode(); code != "en_us" {
		t.Fatalf("language_code = %q, want en_us", code)
	}
}

func TestBuildDetectionOmitsLanguageCode(t *testing.T) {
	sel := selection.Selection{
		Transcription: features.NewSet(features.LanguageDetection),
		Intelligence:  features.NewSet(),
	}

	flags, err := Build(sel, langPtr(features.French))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := flags.LanguageCode(); ok {
		t.Fatalf("language_code should be absent, got %v", flags)
	}
	if !flags.Enabled("language_detection") {
		t.Fatal("language_detection missing")
	}
}

func TestBuildAlwaysEmitsExactlyOneLanguageMode(t *testing.T) {
	for _, lang := range features.Languages() {
		for _, detect := range []bool{false, true} {
			sel := selection.NewSelection()
			if detect {
				sel.Transcription[features.LanguageDetection] = struct{}{}
			}
			flags, err := Build(sel, langPtr(lang))
			if err != nil {
				t.Fatalf("%s/%v: %v", lang, detect, err)
			}
			_, hasCode := flags.LanguageCode()
			if hasCode == flags.Enabled("language_detection") {
				t.Fatalf("%s/%v: flags = %v", lang, detect, flags)
			}
		}
	}
}

func TestBuildAttachesRedactionPolicies(t *testing.T) {
	sel := selection.Selection{
		Transcription: features.NewSet(),
		Intelligence:  features.NewSet(features.PIIRedaction),
	}

	flags, err := Build(sel, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	policies, ok := flags[FieldRedactPolicies].([]string)
	if !ok || len(policies) != len(RedactionPolicies) {
		t.Fatalf("policies = %v", flags[FieldRedactPolicies])
	}
	if flags[FieldRedactSub] != "entity_name" {
		t.Fatalf("redact_pii_sub = %v", flags[FieldRedactSub])
	}

	policies[0] = "changed"
	if RedactionPolicies[0] == "changed" {
		t.Fatal("flags share the package policy list")
	}
}

func TestJobRequestBody(t *testing.T) {
	flags := Flags{"auto_highlights": true, "language_code": "en_us"}
	req := NewJobRequest("https://cdn.example/audio", flags)
	flags["auto_highlights"] = false

	body := req.Body()
	if body["audio_url"] != "https://cdn.example/audio" || body["auto_highlights"] != true {
		t.Fatalf("body = %v", body)
	}
}
