// Package bookkeep provides types and functions for personal bookkeeping:
// recording income and expense operations against bank accounts and
// categories, analyzing them, importing and exporting them, and reconciling
// a stored account balance against what the operation ledger implies.
//
// The core of the package is the balance reconciliation engine:
//   - Reconciliation Strategies: interchangeable policies (automatic, manual,
//     validating) that recompute an account balance from its operation
//     history and report inconsistencies as a ReconciliationResult.
//   - Reconciliation Command: a one-shot invocation wrapper binding a
//     strategy to an account, so timing and logging decorators can wrap any
//     reconciliation uniformly.
//   - Reconciliation Facade: orchestrates fetching live operations, running a
//     strategy, and conditionally committing the recomputed balance back to
//     the account.
//
// Around the engine, the package provides an in-memory Book holding
// accounts, categories and operations, analytics groupings over the
// operation ledger, and CSV/JSON/YAML import and export.
//
// This package serves as the foundational logic for the `bkp` command-line
// tool.
package bookkeep
