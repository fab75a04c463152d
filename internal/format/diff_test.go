package format

import (
	"strings"
	"testing"
)

func TestDiffUnchanged(t *testing.T) {
	d := Diff("a\nb\n", "a\nb\n")
	if d.Changed {
		t.Fatal("expected no change")
	}
	if d.UnifiedDiff("x.syl") != "" {
		t.Error("expected empty unified diff")
	}
	if d.Stats() != "No changes" {
		t.Errorf("unexpected stats %q", d.Stats())
	}
}

func TestDiffChangedLine(t *testing.T) {
	d := Diff("a\nb  \nc\n", "a\nb\nc\n")

	expected := `--- a/x.syl
+++ b/x.syl
@@ -2,1 +2,1 @@
-b  
+b
`
	if got := d.UnifiedDiff("x.syl"); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
	if d.Stats() != "1 lines added, 1 removed" {
		t.Errorf("unexpected stats %q", d.Stats())
	}
}

func TestDiffInsertedAndRemovedLines(t *testing.T) {
	d := Diff("a\n\n\nb\n", "a\n\nb\nc\n")

	unified := d.UnifiedDiff("x.syl")
	if !strings.Contains(unified, "@@ -3,1 +2,0 @@\n-\n") {
		t.Errorf("expected removal of the blank line 3:\n%s", unified)
	}
	if !strings.Contains(unified, "@@ -4,0 +4,1 @@\n+c\n") {
		t.Errorf("expected insertion of c at line 4:\n%s", unified)
	}
	if !strings.Contains(d.String(), "@@ Line 3 @@") {
		t.Errorf("unexpected colored diff:\n%s", d.String())
	}
}
