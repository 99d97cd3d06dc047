package prompt

import (
	"fmt"

	"docforge/studio/pkg/config"
)

// DefaultSystemInstruction is the system message sent with every
// contract-generation request.
const DefaultSystemInstruction = "You are a legal document assistant that generates contract templates. Always maintain the exact placeholder syntax provided."

// DefaultContractType is the contract the prompt asks for.
const DefaultContractType = "sale agreement"

// Collection is one repeated party block, e.g. every vendor.
type Collection struct {
	// Key is the placeholder collection name, e.g. "vendedor"
	Key string

	// Label names the parties in the prompt, e.g. "vendors"
	Label string
}

// Field is one placeholder inside a block.
type Field struct {
	// Label is the human-readable name, e.g. "Surname"
	Label string

	// Key is the placeholder property, e.g. "surname"
	Key string
}

// Profile is the language and placeholder schema a Builder renders.
type Profile struct {
	// Language is the profile code, e.g. "es"
	Language string

	// LanguageName is written into the prompt, e.g. "Spanish"
	LanguageName string

	ContractType      string
	Collections       []Collection
	Fields            []Field
	SystemInstruction string
}

// DefaultCollections are the seller and buyer blocks.
func DefaultCollections() []Collection {
	return []Collection{
		{Key: "vendedor", Label: "vendors"},
		{Key: "comprador", Label: "buyers"},
	}
}

// DefaultFields are the per-party placeholders.
func DefaultFields() []Field {
	return []Field{
		{Label: "Name", Key: "name"},
		{Label: "Surname", Key: "surname"},
		{Label: "DNI", Key: "dni"},
		{Label: "Address", Key: "address"},
	}
}

var languageNames = map[string]string{
	"es": "Spanish",
	"pt": "Portuguese",
}

// Builtin returns the built-in profile for a language code.
func Builtin(language string) (Profile, bool) {
	name, ok := languageNames[language]
	if !ok {
		return Profile{}, false
	}
	return Profile{
		Language:          language,
		LanguageName:      name,
		ContractType:      DefaultContractType,
		Collections:       DefaultCollections(),
		Fields:            DefaultFields(),
		SystemInstruction: DefaultSystemInstruction,
	}, true
}

// ProfileFromConfig resolves cfg against the built-in profiles. A custom
// language code needs LanguageName; every other override is optional.
func ProfileFromConfig(cfg config.PromptConfig) (Profile, error) {
	language := cfg.Language
	if language == "" {
		language = config.DefaultPromptLanguage
	}

	p, ok := Builtin(language)
	if !ok {
		if cfg.LanguageName == "" {
			return Profile{}, fmt.Errorf("unknown prompt language %q and no language_name given", language)
		}
		p, _ = Builtin(config.DefaultPromptLanguage)
		p.Language = language
	}

	if cfg.LanguageName != "" {
		p.LanguageName = cfg.LanguageName
	}
	if cfg.SystemInstruction != "" {
		p.SystemInstruction = cfg.SystemInstruction
	}
	if len(cfg.Collections) > 0 {
		p.Collections = make([]Collection, len(cfg.Collections))
		for i, c := range cfg.Collections {
			p.Collections[i] = Collection{Key: c.Key, Label: c.Label}
		}
	}
	if len(cfg.Fields) > 0 {
		p.Fields = make([]Field, len(cfg.Fields))
		for i, f := range cfg.Fields {
			p.Fields[i] = Field{Label: f.Label, Key: f.Key}
		}
	}

	return p, nil
}
