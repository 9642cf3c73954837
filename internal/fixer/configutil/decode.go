// Package configutil decodes validated fixer options into typed structs.
package configutil

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Decode unmarshals options into T using koanf struct tags.
//
// Options are expected to come from fixer.ValidateConfig, which fills in
// defaults, so no default merging happens here and explicit false or empty
// values are preserved.
func Decode[T any](opts map[string]any) (T, error) {
	var result T
	if len(opts) == 0 {
		return result, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, ""), nil); err != nil {
		return result, fmt.Errorf("load options: %w", err)
	}
	if err := k.Unmarshal("", &result); err != nil {
		return result, fmt.Errorf("decode options: %w", err)
	}
	return result, nil
}
