package testsuite

import "testing"

// TestRunSuite runs every scenario under test/suite against the real
// assembler, engine, and RSpace. It is less a unit test than a way to
// exercise spec.md's 8.4 end-to-end scenarios declaratively and get
// coverage for the assemble-execute-check pipeline as a whole.
func TestRunSuite(t *testing.T) {
	if err := ExecuteSuite("../../test/suite"); err != nil {
		t.Fatalf("running scenario suite: %v", err)
	}
}
