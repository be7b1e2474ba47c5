// Package airdropservice implements the custodial token-distribution ledger.
//
// The module owns the allocation and claim tables, the tracked treasury
// balance, and exposes HTTP command/query handlers plus the outbox relay
// worker entrypoint for off-chain indexers.
package airdropservice
