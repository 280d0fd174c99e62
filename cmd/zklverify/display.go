package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"zkl-file-verify/pkg/engine"
)

var signalNames = []string{"derived_hash", "commitment"}

func renderPublicSignals(p *engine.Proof) {
	pterm.DefaultSection.Println("Public signals")
	data := pterm.TableData{{"#", "Name", "Value"}}
	for i, s := range p.PublicSignals() {
		data = append(data, []string{fmt.Sprint(i), signalNames[i], s.String()})
	}
	_ = pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
}

func renderProofHeader(p *engine.Proof) {
	_ = pterm.DefaultTable.WithHasHeader(false).WithData(pterm.TableData{
		{"Version", p.Version},
		{"Scheme", p.Scheme},
		{"Curve", p.Curve},
		{"Circuit ID", p.CircuitID},
		{"Shape", p.Shape.String()},
		{"Proof size", fmt.Sprintf("%d bytes", len(p.Material))},
	}).Render()
}
