/*
Package offer implements a bilateral token offer.

A maker locks an amount of one asset in a vault and names the amount of
a second asset it wants in return. A taker can fill the offer at once,
receiving the whole vault, or the maker can refund it. Either way the
offer and its vault are closed together.

Both the offer and the vault live at addresses derived from this
package's ProgramID, so funds can only leave the vault while this
package handles the request.
*/
package offer
