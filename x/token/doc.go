/*
Package token implements the asset ledger: mints that describe an asset
and token accounts that hold a balance of one mint for an owner.

Owners are addresses. An owner is either a user key, proven by a
signature on the request, or a program derived address, proven by the
program executing the request and the seeds that derive the address.
Both are expressed as an Authority and checked by the Controller before
any balance leaves an account.
*/
package token
