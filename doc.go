/*
Package swap defines all common interfaces to tie together the
extensions of the offer ledger, as well as implementations of some of
the simpler components (when interfaces would be too much overhead).

The ledger is composed of two extensions. x/token keeps the asset
ledger: mints with their declared precision and token accounts with
their controlling owner, and exposes the checked transfer primitive.
x/offer implements the bilateral offer state machine on top of it,
locking the maker's asset in a program-owned vault until the offer is
either taken or refunded.

Every account that a program (rather than a user key) controls lives at
a program-derived address, see CreateProgramAddress. Such addresses are
computed from seeds and never lie on the ed25519 curve, so there is no
private key that could sign for them.

We pass context through context.Context between app, middleware, and
handlers. There should exist two functions for every XYZ of type T that
we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, chain id).
*/
package swap
