package request

import (
	"fmt"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
)

// Request field names beyond the feature flags
const (
	FieldLanguageCode      = "language_code"
	FieldLanguageDetection = "language_detection"
	FieldRedactPolicies    = "redact_pii_policies"
	FieldRedactSub         = "redact_pii_sub"
	FieldAudioURL          = "audio_url"
)

// RedactionPolicies is sent with every PII redaction request
var RedactionPolicies = []string{
	"medical_process",
	"medical_condition",
	"blood_type",
	"drug",
	"injury",
	"number_sequence",
	"email_address",
	"date_of_birth",
	"phone_number",
	"us_social_security_number",
	"credit_card_number",
	"credit_card_expiration",
	"credit_card_cvv",
	"date",
	"nationality",
	"event",
	"language",
	"location",
	"money_amount",
	"person_name",
	"person_age",
	"organization",
	"political_affiliation",
	"occupation",
	"religion",
	"drivers_license",
	"banking_information",
}

// Flags is the complete argument set of an analysis request
type Flags map[string]any

// Enabled reports whether flag is present and true
func (f Flags) Enabled(flag string) bool {
	v, ok := f[flag].(bool)
	return ok && v
}

// LanguageCode returns the explicit language code, if any
func (f Flags) LanguageCode() (string, bool) {
	code, ok := f[FieldLanguageCode].(string)
	return code, ok
}

// Build turns the effective selection into request flags.
// A nil language selects DefaultLanguage.
func Build(effective selection.Selection, lang *features.Language) (Flags, error) {
	flags := make(Flags)
	for _, set := range []features.Set{effective.Transcription, effective.Intelligence} {
		for f := range set {
			flags[f.Flag()] = true
		}
	}

	if !flags.Enabled(FieldLanguageDetection) {
		resolved := features.DefaultLanguage
		if lang != nil {
			resolved = *lang
		}
		flags[FieldLanguageCode] = resolved.Code()
	}

	if flags.Enabled(features.PIIRedaction.Flag()) {
		policies := make([]string, len(RedactionPolicies))
		copy(policies, RedactionPolicies)
		flags[FieldRedactPolicies] = policies
		flags[FieldRedactSub] = "entity_name"
	}

	if err := validate(flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func validate(flags Flags) error {
	_, hasCode := flags.LanguageCode()
	detect := flags.Enabled(FieldLanguageDetection)
	if hasCode == detect {
		return fmt.Errorf("request must carry exactly one of %s and %s", FieldLanguageDetection, FieldLanguageCode)
	}
	return nil
}

// JobRequest is the body posted to the transcript endpoint
type JobRequest struct {
	AudioURL string
	Flags    Flags
}

// NewJobRequest pairs an uploaded audio URL with a copy of flags
func NewJobRequest(audioURL string, flags Flags) JobRequest {
	copied := make(Flags, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return JobRequest{AudioURL: audioURL, Flags: copied}
}

// Body returns the JSON body for the request
func (r JobRequest) Body() map[string]any {
	body := make(map[string]any, len(r.Flags)+1)
	for k, v := range r.Flags {
		body[k] = v
	}
	body[FieldAudioURL] = r.AudioURL
	return body
}
