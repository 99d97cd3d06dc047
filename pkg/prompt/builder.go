package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Builder renders contract-generation prompts for one Profile. The
// rendered text depends only on the profile, so it is computed once.
type Builder struct {
	profile Profile
	blocks  map[string]string
	prompt  string
}

// NewBuilder validates p and prepares its prompt.
func NewBuilder(p Profile) (*Builder, error) {
	if p.LanguageName == "" {
		return nil, fmt.Errorf("prompt profile %q has no language name", p.Language)
	}
	if len(p.Collections) == 0 {
		return nil, errors.New("prompt profile needs at least one collection")
	}
	if len(p.Fields) == 0 {
		return nil, errors.New("prompt profile needs at least one field")
	}
	for _, c := range p.Collections {
		if c.Key == "" {
			return nil, errors.New("prompt collection key must not be empty")
		}
	}
	for _, f := range p.Fields {
		if f.Key == "" || f.Label == "" {
			return nil, errors.New("prompt field needs both key and label")
		}
	}
	if p.ContractType == "" {
		p.ContractType = DefaultContractType
	}
	if p.SystemInstruction == "" {
		p.SystemInstruction = DefaultSystemInstruction
	}

	b := &Builder{
		profile: p,
		blocks:  make(map[string]string, len(p.Collections)),
	}
	for _, c := range p.Collections {
		b.blocks[c.Key] = placeholderBlock(c.Key, p.Fields)
	}
	b.prompt = b.render()

	return b, nil
}

// Build returns the user prompt. fields may be any decoded or raw JSON
// value; it is never read, so identical profiles always yield identical
// prompts.
func (b *Builder) Build(fields any) string {
	return b.prompt
}

// SystemInstruction returns the system message for generation requests.
func (b *Builder) SystemInstruction() string {
	return b.profile.SystemInstruction
}

// PlaceholderBlock returns the verbatim block for collection, or "" if
// the profile has no such collection.
func (b *Builder) PlaceholderBlock(collection string) string {
	return b.blocks[collection]
}

// Profile returns the profile the builder renders.
func (b *Builder) Profile() Profile {
	return b.profile
}

func (b *Builder) render() string {
	p := b.profile

	sections := []string{
		fmt.Sprintf("Generate a legal contract template in %s for a %s.\nUse EXACTLY these placeholders for dynamic content:",
			p.LanguageName, p.ContractType),
	}

	for _, c := range p.Collections {
		label := c.Label
		if label == "" {
			label = c.Key
		}
		sections = append(sections, fmt.Sprintf("For %s:\n%s", label, b.blocks[c.Key]))
	}

	rules := []string{
		"Keep all placeholder syntax exactly as shown above",
		fmt.Sprintf("Generate a formal %s legal contract", p.LanguageName),
		fmt.Sprintf("Include standard legal clauses for a %s", p.ContractType),
		"Ensure proper formatting and structure",
		fmt.Sprintf("Use proper legal terminology in %s", p.LanguageName),
	}
	var important strings.Builder
	important.WriteString("Important:")
	for i, rule := range rules {
		fmt.Fprintf(&important, "\n%d. %s", i+1, rule)
	}
	sections = append(sections, important.String())

	return strings.Join(sections, "\n\n")
}

// placeholderBlock renders the repeated-block markup for one collection:
//
//	{{#each vendedor}}
//	- Name: {{this.name}}
//	{{/each}}
func placeholderBlock(key string, fields []Field) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "{{#each %s}}\n", key)
	for _, f := range fields {
		fmt.Fprintf(&sb, "- %s: {{this.%s}}\n", f.Label, f.Key)
	}
	sb.WriteString("{{/each}}")
	return sb.String()
}
