package arraynotation

import (
	"testing"

	"github.com/wharflab/polish/internal/testutil"
)

func TestNoWhitespaceBeforeCommaFix(t *testing.T) {
	t.Parallel()

	heredoc := "<?php $x = [<<<EOD\nfoo\nEOD\n    , 'bar'];"
	tests := []struct {
		name     string
		expected string
		input    string
		opts     map[string]any
	}{
		{"long", `<?php $x = array(1, "2",3);`, `<?php $x = array(1 , "2",3);`, nil},
		{"short", `<?php $x = [1, "2", 3,$y];`, `<?php $x = [1 , "2" , 3 ,$y];`, nil},
		{"nested call untouched", `<?php $x = [f(1 , 2), 3];`, `<?php $x = [f(1 , 2) , 3];`, nil},
		{"after comment kept", "<?php $x = [1 // one\n, 2];", "", nil},
		{"heredoc kept", heredoc, "", nil},
		{"heredoc removed", "<?php $x = [<<<EOD\nfoo\nEOD, 'bar'];", heredoc, map[string]any{"after_heredoc": true}},
	}

	f := NewNoWhitespaceBeforeCommaFixer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input := tt.input
			if input == "" {
				input = tt.expected
			}
			testutil.AssertFix(t, f, tt.expected, input, tt.opts)
		})
	}
}

func TestNoTrailingCommaInSinglelineArrayFix(t *testing.T) {
	t.Parallel()

	f := NewNoTrailingCommaInSinglelineArrayFixer()
	testutil.AssertFix(t, f, `<?php $a = array('sample');`, `<?php $a = array('sample',  );`, nil)
	testutil.AssertFix(t, f, `<?php $a = [1, 2]; foo($b,);`, `<?php $a = [1, 2,]; foo($b,);`, nil)
	testutil.AssertFix(t, f, "<?php $a = [\n    1,\n];", "", nil)
}
