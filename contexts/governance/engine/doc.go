// Package engine implements the governance engine inside the governance
// context.
//
// The module owns the member account ledger, the proposal lifecycle with
// weighted voting, treasury custody (contributions, stake, payouts) and the
// collaboration registry. All command operations are single atomic state
// transitions; event production goes through the outbox-backed relay worker.
// Business rules live in the application and domain layers, infrastructure
// sits behind ports and adapters.
package engine
