// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PostSource: Fetches posts from Reddit
//   - ConfigStore: Application configuration
//   - ClassificationCache: Content-keyed classification reuse
//   - HistoryStore: Past queries
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, the pipeline only fetches.
//   - ContentExtractor: Thread extraction. Without it, summaries are disabled.
//   - PromptStore: Custom prompt templates. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
