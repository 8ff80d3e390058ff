// Package retrieval implements the context retrieval contract the
// conversation pipeline consumes: given a query, return ranked text snippets
// from previously ingested documents. It ships a recursive character splitter
// for chunking, an Embedder boundary with a Gemini-backed implementation, and
// an in-memory cosine-similarity index suitable for single-process use.
// Durable vector storage lives behind the same Retriever contract and is out
// of scope here.
package retrieval
