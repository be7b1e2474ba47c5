// Package custodyservice implements the account/asset-custody subsystem.
//
// It owns custody account rows and exposes transfer, balance, receivable
// provisioning, and administrative credit operations consumed by the
// distribution-core modules.
package custodyservice
