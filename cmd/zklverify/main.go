// Command zklverify proves knowledge of a secret bound to an IPFS hash.
//
//	zklverify <ipfs_hash> <hash_value> <secret>
//
// generates a proof that hash_value is the truncated SHA-256 of ipfs_hash and
// that the public commitment was derived from the same ipfs_hash and a secret,
// verifies it, and writes it to ipfs_verification_proof.json.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "zklverify failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}
