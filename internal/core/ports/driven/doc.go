// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts plain text from uploaded bytes
//   - NormaliserRegistry: Selects the appropriate normaliser by MIME type
//   - PostProcessor / PostProcessorPipeline: Chunking
//   - VectorStore: Collection persistence and similarity search
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Query expansion and answer synthesis
//   - ConfigStore: Application configuration
//   - PromptStore: LLM prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
