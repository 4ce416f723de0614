// Package document exposes the contracts for fetching template documents.
// Implementations live under internal/loader so callers only depend on the
// Source, Document and Loader types.
package document
