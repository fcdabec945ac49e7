// Package models defines the core domain models for MoneyTalk.
//
// # Models
//
//   - Transaction: a single income or expense entry in one of the two wallets
//   - User: a registered account; the username partitions all per-user data
//   - Message: one entry in a user's chat transcript
//
// # Design Principles
//
// 1. **Two fixed wallets**: "cash" and "account" form a closed enumeration;
// balances are always derived from transactions, never stored.
//
// 2. **Full replacement edits**: transactions are replaced wholesale by ID,
// never patched field by field.
//
// 3. **Civil time**: transaction dates carry a local date+time with no zone,
// matching how users think about "when I spent it".
//
// 4. **Transfers are not an entity**: moving money between wallets
// materializes a balanced expense/income transaction pair sharing one
// timestamp; nothing else is recorded.
package models
