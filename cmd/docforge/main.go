// Docforge serves the contract template editor: a node-graph front end,
// graph persistence and LLM-backed contract generation.
//
// Usage:
//
//	# Start the server with ./config.yaml, .env and the environment
//	docforge run
//
//	# Start with a custom configuration file
//	docforge run --config /etc/docforge/config.yaml
//
//	# Print the resolved configuration with secrets redacted
//	docforge config check
//
//	# List stored graph revisions (sqlite backend)
//	docforge revisions list --format csv
//
//	# Show version information
//	docforge version
package main

func main() {
	Execute()
}
