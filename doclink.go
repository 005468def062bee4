// Package doclink turns cloned documentation trees into structured,
// machine-consumable documents enriched with semantic links between
// explanatory prose and the code it describes. Documents are parsed into
// hierarchical section trees of typed blocks, segmented into linkable
// sections, and analyzed in batches by an LLM whose validated output is
// merged back into the tree. A content-addressed cache deduplicates
// analysis calls and a shared token ledger accounts for their cost.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goldmark/, gemini/, sqlite/).
package doclink
