package driver

import (
	"encoding/json"
	"fmt"

	"shady/internal/diag"
	"shady/internal/observ"
	"shady/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the phase timings as an info diagnostic
// whose note carries the JSON report. It is added even when the bag is full.
func appendTimingDiagnostic(bag *diag.Bag, sp source.Span, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	d := diag.New(diag.SevInfo, diag.ObsTimings, sp, msg).WithNote(sp, string(data))
	if bag.Add(d) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(d)
	bag.Merge(overflow)
}
