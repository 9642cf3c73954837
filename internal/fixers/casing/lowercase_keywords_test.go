package casing

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"github.com/wharflab/polish/internal/testutil"
)

func TestLowercaseKeywordsMetadata(t *testing.T) {
	t.Parallel()
	snaps.MatchStandaloneJSON(t, NewLowercaseKeywordsFixer().Metadata())
}

func TestLowercaseKeywordsFix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
		input    string
	}{
		{"control flow", "<?php $x = (1 and 2);", "<?php $x = (1 AND 2);"},
		{"foreach", "<?php foreach(array(1, 2, 3) as $val) {}", "<?php FOREACH(ARRAY(1, 2, 3) AS $val) {}"},
		{"echo", "<?php echo \"GOOD AS NEW\";", "<?php ECHO \"GOOD AS NEW\";"},
		{"function", "<?php function Foo() {}", "<?php FUNCTION Foo() {}"},
		{"class constant", "<?php echo Foo::class;", "<?php echo Foo::CLASS;"},
		{"method named like a keyword", "<?php $foo->ECHO(); Foo::LIST();", ""},
		{"constant named like a keyword", "<?php class Foo { const PRINT = 1; }", ""},
		{"strings untouched", "<?php $x = 'ECHO AND PRINT';", ""},
		{"inline html untouched", "ECHO <?php echo 1;", "ECHO <?php ECHO 1;"},
		{"enum declaration", "<?php enum Suit {}", "<?php ENUM Suit {}"},
		{"class named Enum", "<?php class Enum {} $e = new Enum(); Enum::from(1);", ""},
		{"try catch", "<?php try {} catch (\\Exception $e) { exit(1); }", "<?php TRY {} CATCH (\\Exception $e) { EXIT(1); }"},
	}

	f := NewLowercaseKeywordsFixer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input := tt.input
			if input == "" {
				input = tt.expected
			}
			testutil.AssertFix(t, f, tt.expected, input, nil)
		})
	}
}

func TestLowercaseKeywordsIsCandidate(t *testing.T) {
	t.Parallel()

	f := NewLowercaseKeywordsFixer()
	assert.False(t, f.IsCandidate(testutil.Tokenize(t, "<?php echo $x;")))
	assert.True(t, f.IsCandidate(testutil.Tokenize(t, "<?php Echo $x;")))
}
