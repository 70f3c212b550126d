/*
Package counter implements Counter contract which is deployed to FS chain.

Counter contract tracks per-owner counters driven by the outcomes of
cross-chain token transfers. The contract initiates a transfer with
TransferFunds and registers itself as the receiver of the final result.
The transfer protocol resolves the packet outside of the chain; once it
does, Alphabet nodes relay the outcome back as a separate invocation of
one of the callback methods. An acknowledgement adds 1 to the counter,
a timeout adds 10, and a callback for an address without a counter
creates one holding the bare increment. Counters are never removed.

Note that all callbacks index the counter by the contract's own address
rather than by the participants of the original transfer, so every
outcome lands in one shared record.

# Contract notifications

TransferFunds notification. This notification is produced when an
outbound cross-chain transfer is initiated. Alphabet nodes catch the
notification and submit the transfer to the protocol with the given
deadline; the callback address is where the outcome is delivered.

	TransferFunds:
	  - name: channel
	    type: String
	  - name: denom
	    type: String
	  - name: amount
	    type: Integer
	  - name: recipient
	    type: String
	  - name: deadline
	    type: Integer
	  - name: callback
	    type: Hash160

SourceCallback notification. This notification is produced when the
final outcome of an initiated transfer has been folded into the counter.

	SourceCallback:
	  - name: kind
	    type: Integer

DestinationCallback notification. This notification is produced when a
successfully acknowledged inbound transfer has been folded into the
counter. Non-qualifying packets produce neither notification nor state
change.

	DestinationCallback:
	  - name: portID
	    type: String
*/
package counter

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'c' + interop.Hash160 -> std.Serialize(Counter)
   per-owner counter records (here Counter is a structure defined in current package)
 - 'd' -> string
   contract name/version stamp written once at the initial deployment

# Counting
Contract stores one counter record per owner address. Records are
created by the initial deployment for the instantiating owner and by
callbacks for the contract's own address, and are only ever mutated by
callbacks.
*/
