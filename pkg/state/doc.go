// Package state loads and saves per-scope presentation snapshots and resolves
// them into a presentation.State.
//
// Store[T] only loads and saves a single snapshot for a single Ref. Resolver
// loads snapshots for several scopes and layers them with presentation.Stack,
// so the core package stays persistence agnostic.
//
// Data flow:
//
//	Store -> Resolver -> presentation.NewStack(...).Resolve(...) -> *presentation.State
//
// Meta.SnapshotID is copied onto each presentation.Layer and shows up in the
// returned presentation.Trace.
//
// Ref.Identifier() gives the canonical storage key:
//
//	system/<domain>
//	<scope>/<scope id>/<domain>   for tenant, org, team and user scopes
package state
