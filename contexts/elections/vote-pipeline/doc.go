// Package votepipeline implements the vote submission pipeline inside the
// elections context.
//
// The module owns the synchronous intake path (validation, duplicate
// pre-screening, queueing), the asynchronous recorder that makes votes
// durable, the cached results aggregation, and the per-submission status
// surface. It keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package votepipeline
