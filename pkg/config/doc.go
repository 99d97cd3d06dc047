// Package config provides configuration loading for docforge.
//
// Configuration comes from three layers, later overriding earlier:
//
//  1. Default values (defaults.go)
//  2. An optional YAML file
//  3. Environment variables, including those loaded from a .env file
//
// The historical variable names are honoured: OPENAI_API_KEY, OPENAI_MODEL,
// DEBUG, HOST, PORT, MAX_CONTENT_LENGTH and CORS_ORIGINS. Newer settings use
// the DOCFORGE_ prefix, e.g. DOCFORGE_GRAPH_BACKEND.
//
// OPENAI_API_KEY has no default. Load fails with a ValidationError when it
// is missing, so the process never reaches the point of binding a listener.
//
//	cfg, err := config.Load("docforge.yaml")
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.Server.Addr())
package config
