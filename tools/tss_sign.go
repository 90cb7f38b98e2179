//go:build ignore

// TSS signing helper: builds and signs a withdrawal authorization message
// the way the off-chain signer does, printing the message hash, signature
// and recovery id for submission to the gateway server.
//
// Usage:
//
//	go run tss_sign.go <privkey-hex> <instruction-id> <chain-id> <nonce> <amount> <field-hex>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	gwcrypto "pushgateway/crypto"
)

func main() {
	if len(os.Args) != 7 {
		fmt.Fprintln(os.Stderr, "usage: tss_sign <privkey-hex> <instruction-id> <chain-id> <nonce> <amount> <field-hex>")
		os.Exit(1)
	}

	privKey, err := hex.DecodeString(os.Args[1])
	fatal(err)
	id, err := strconv.ParseUint(os.Args[2], 10, 8)
	fatal(err)
	chainID, err := strconv.ParseUint(os.Args[3], 10, 64)
	fatal(err)
	nonce, err := strconv.ParseUint(os.Args[4], 10, 64)
	fatal(err)
	amount, err := strconv.ParseUint(os.Args[5], 10, 64)
	fatal(err)
	field, err := hex.DecodeString(os.Args[6])
	fatal(err)

	message := gwcrypto.BuildMessage(gwcrypto.InstructionID(id), chainID, nonce, &amount, [][]byte{field})
	hash := gwcrypto.MessageHash(message)

	sig, recID, err := gwcrypto.Sign(privKey, hash)
	fatal(err)

	addr, err := gwcrypto.EthAddressFromPrivKey(privKey)
	fatal(err)

	fmt.Printf("signer_address: %s\n", addr.Hex())
	fmt.Printf("message_hash:   %s\n", hex.EncodeToString(hash[:]))
	fmt.Printf("signature:      %s\n", hex.EncodeToString(sig[:]))
	fmt.Printf("recovery_id:    %d\n", recID)
}

func fatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
