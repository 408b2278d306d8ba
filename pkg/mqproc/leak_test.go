package mqproc

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain guards the whole package against goroutine leaks across
// Subscribe/Unsubscribe cycles and pool teardown.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
