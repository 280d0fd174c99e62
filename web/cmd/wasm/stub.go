//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"

	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/relation"
)

// generateStubProof runs the relation-only engine in the browser. It gives
// no zero knowledge; it lets a page preview the public outputs and the proof
// document layout.
// Args: ipfsHash, hashValue, secret
// Returns: {proof: JSON string} or {error}
func generateStubProof(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResponse("args: ipfsHash, hashValue, secret")
	}
	e, err := engine.NewStubEngine()
	if err != nil {
		return errorResponse(err.Error())
	}
	p, err := e.Generate(context.Background(), relation.Witness{
		IPFSHash:  args[0].String(),
		HashValue: args[1].String(),
		Secret:    args[2].String(),
	})
	if err != nil {
		return errorResponse(fmt.Sprintf("proof generation failed: %v", err))
	}
	data, err := engine.Marshal(p, engine.FormatJSON)
	if err != nil {
		return errorResponse(fmt.Sprintf("proof serialization failed: %v", err))
	}
	return map[string]interface{}{
		"proof": string(data),
	}
}
