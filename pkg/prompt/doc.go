// Package prompt renders the contract-generation prompt.
//
// A Profile fixes the target language and the placeholder schema. The
// rendered prompt describes the placeholder blocks the model must copy
// verbatim, such as
//
//	{{#each vendedor}}
//	- Name: {{this.name}}
//	- Surname: {{this.surname}}
//	- DNI: {{this.dni}}
//	- Address: {{this.address}}
//	{{/each}}
//
// The placeholders are never parsed or expanded here; they are only text.
package prompt
