// Package models defines the core domain models for receiptsplit.
//
// # Models
//
//   - Payer: a participant in the shared expense pool, owning receipts
//   - Receipt: one expense entry belonging to a payer, optionally itemized
//   - ReceiptItem: one line on a receipt, contributing to its total
//
// # Design Principles
//
//  1. **Plain data**: models carry no behavior beyond deep copies
//  2. **Composition**: a payer owns its receipts, a receipt owns its items
//  3. **IDs over pointers**: receipts reference their payer by ID only
//  4. **Derived values are not ground truth**: Payer.AmountDue is filled by the
//     ledger on read and never written by a store
package models
