package providers

import (
	_ "embed"
	"encoding/json"

	"github.com/jackzampolin/docview/internal/types"
)

//go:embed sample.json
var sampleJSON []byte

// SampleDocument returns a fresh copy of the canned sample document.
func SampleDocument() *types.DocumentResponse {
	var doc types.DocumentResponse
	if err := json.Unmarshal(sampleJSON, &doc); err != nil {
		panic("providers: invalid embedded sample document: " + err.Error())
	}
	return &doc
}
