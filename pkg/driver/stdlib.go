package driver

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/types"
)

// stdlib.json mirrors the teacher's pkg/jack/stdlib.go embed (its own
// stdlib.json never shipped; this one does), reshaped to the Global
// Registry's Signature record instead of a jack.Class value.
//
//go:embed stdlib.json
var stdlibContent []byte

type stdlibSignature struct {
	Kind       string   `json:"kind"`
	ReturnType string   `json:"returnType"`
	Params     []string `json:"params"`
}

// LoadStdlib registers spec §4.8's standard library ABI (Math, String,
// Array, Output, Screen, Keyboard, Memory, Sys) directly into reg/treg, as
// if every OS class had been parsed from source, so calls like
// Output.printString resolve without the OS .jack files being present.
func LoadStdlib(reg *registry.Registry, treg *types.Registry) error {
	var abi map[string]map[string]stdlibSignature
	if err := json.Unmarshal(stdlibContent, &abi); err != nil {
		return fmt.Errorf("stdlib ABI: %w", err)
	}

	for class, subs := range abi {
		reg.RegisterClass(class)
		for name, sig := range subs {
			params := make([]*types.Type, len(sig.Params))
			for i, p := range sig.Params {
				params[i] = treg.GetOrCreate(p)
			}
			signature := &registry.Signature{
				ReturnType: treg.GetOrCreate(sig.ReturnType),
				Params:     params,
				Kind:       registry.SubroutineKind(sig.Kind),
			}
			if !reg.RegisterMethod(class, name, signature) {
				return fmt.Errorf("stdlib ABI: duplicate entry %s.%s", class, name)
			}
		}
	}
	return nil
}
