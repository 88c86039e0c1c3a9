package features

import "fmt"

// Language is one of the transcription languages offered by the dropdown
type Language int

const (
	GlobalEnglish Language = iota
	USEnglish
	BritishEnglish
	AustralianEnglish
	Spanish
	French
	German
	Italian
	Portuguese
	Dutch
	Hindi
	Japanese
)

// DefaultLanguage is used when no language has been chosen
const DefaultLanguage = USEnglish

var languageTable = [...]struct {
	name string
	code string
}{
	GlobalEnglish:     {"Global English", "en"},
	USEnglish:         {"US English", "en_us"},
	BritishEnglish:    {"British English", "en_uk"},
	AustralianEnglish: {"Australian English", "en_au"},
	Spanish:           {"Spanish", "es"},
	French:            {"French", "fr"},
	German:            {"German", "de"},
	Italian:           {"Italian", "it"},
	Portuguese:        {"Portuguese", "pt"},
	Dutch:             {"Dutch", "nl"},
	Hindi:             {"Hindi", "hi"},
	Japanese:          {"Japanese", "ja"},
}

func (l Language) valid() bool { return l >= 0 && int(l) < len(languageTable) }

// Name returns the dropdown label
func (l Language) Name() string {
	if !l.valid() {
		panic(fmt.Sprintf("features: unknown language %d", int(l)))
	}
	return languageTable[l].name
}

// Code returns the API language_code value
func (l Language) Code() string {
	if !l.valid() {
		panic(fmt.Sprintf("features: unknown language %d", int(l)))
	}
	return languageTable[l].code
}

func (l Language) String() string { return l.Name() }

// MarshalText encodes the language by display name
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.Name()), nil
}

// UnmarshalText decodes a display name
func (l *Language) UnmarshalText(b []byte) error {
	parsed, err := ParseLanguage(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLanguage looks up a language by display name
func ParseLanguage(name string) (Language, error) {
	for i, entry := range languageTable {
		if entry.name == name {
			return Language(i), nil
		}
	}
	return 0, fmt.Errorf("unknown language %q", name)
}

// Languages returns every language in dropdown order
func Languages() []Language {
	out := make([]Language, len(languageTable))
	for i := range languageTable {
		out[i] = Language(i)
	}
	return out
}
