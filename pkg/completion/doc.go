// Package completion wraps the chat-completion provider behind the two
// calls docforge makes: contract generation and a connectivity check.
//
// Every call is a single attempt bounded by the configured timeout. Any
// provider failure, deadline expiry included, comes back as a
// *CompletionError and is logged once, here, at error level.
//
//	client, err := completion.New(provider, completion.Options{
//		Model:   cfg.OpenAI.Model,
//		Timeout: cfg.OpenAI.Timeout,
//		Logger:  logger,
//	})
//	text, err := client.Complete(ctx, builder.SystemInstruction(), builder.Build(fields))
package completion
