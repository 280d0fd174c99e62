//go:build js && wasm

package main

import (
	"encoding/base64"
	"syscall/js"

	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/ipfs"
	"zkl-file-verify/pkg/relation"
	"zkl-file-verify/pkg/store"
)

// evaluateRelation checks a witness without proving it.
// Args: ipfsHash, hashValue, secret
// Returns: {holds: bool, derived_hash: string, commitment: string, profile: string}
func evaluateRelation(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResponse("args: ipfsHash, hashValue, secret")
	}
	out, holds := relation.Evaluate(relation.Witness{
		IPFSHash:  args[0].String(),
		HashValue: args[1].String(),
		Secret:    args[2].String(),
	})
	return map[string]interface{}{
		"holds":        holds,
		"derived_hash": out.DerivedHash.String(),
		"commitment":   out.Commitment.String(),
		"profile":      store.Profile,
	}
}

// verifyProof checks a proof document. gnark proofs need a verifying key;
// stub proofs from generateStubProof are checked with the default stub key.
// Args: proofJSON (string), vkBase64 (string, optional for stub proofs)
func verifyProof(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResponse("args: proofJSON, vkBase64")
	}
	p, _, err := engine.Unmarshal([]byte(args[0].String()))
	if err != nil {
		return errorResponse("failed to unmarshal proof: " + err.Error())
	}
	var vk []byte
	if len(args) > 1 && args[1].Type() == js.TypeString {
		vk, err = base64.StdEncoding.DecodeString(args[1].String())
		if err != nil {
			return errorResponse("invalid base64 verifying key")
		}
	}

	if err := engine.CheckDetached(p, vk); err != nil {
		return map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		}
	}
	return map[string]interface{}{
		"success":      true,
		"circuit_id":   p.CircuitID,
		"derived_hash": p.Public.DerivedHash.String(),
		"commitment":   p.Public.Commitment.String(),
	}
}

// inspectIPFSHash returns the hash_value for an IPFS hash and, when it is a
// CID, its codec and hash function.
func inspectIPFSHash(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResponse("args: ipfsHash")
	}
	ipfsHash := args[0].String()
	res := map[string]interface{}{
		"hash_value": relation.HashValueFor(ipfsHash),
		"is_cid":     false,
	}
	if info, err := ipfs.Inspect(ipfsHash); err == nil {
		res["is_cid"] = true
		res["cid_version"] = int(info.Version)
		res["codec"] = info.Codec
		res["hash_func"] = info.HashFunc
	}
	return res
}

func errorResponse(msg string) map[string]interface{} {
	return map[string]interface{}{
		"error": msg,
	}
}

func main() {
	c := make(chan struct{})
	js.Global().Set("evaluateRelation", js.FuncOf(evaluateRelation))
	js.Global().Set("verifyProof", js.FuncOf(verifyProof))
	js.Global().Set("inspectIPFSHash", js.FuncOf(inspectIPFSHash))
	js.Global().Set("generateStubProof", js.FuncOf(generateStubProof))
	<-c
}
