// Package pollservice implements poll and candidate lifecycle inside the
// elections context.
//
// The module owns poll creation with its one-in-flight rule, the
// start/stop/delete transitions, candidate management, and the cached
// candidate listing. The vote pipeline consumes its data as read-model
// projections; this module never touches the vote ledger directly except to
// cascade deletes.
package pollservice
