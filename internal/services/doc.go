// Package services provides cross-cutting helpers shared by aircheck
// components: context annotation for structured logging and sentinel error
// markers used to classify failures at the CLI boundary.
package services
