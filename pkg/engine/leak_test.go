package engine

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/cwbudde/ecmalite/internal/config"
)

// TestDisposeLeavesNoGoroutinesRunning guards the per-call goroutine
// architecture (internal/generator spins up one goroutine per live
// generator, and every async function call drives its body suspension
// through an analogous goroutine pair): every one of them must have exited
// by the time the script finishes, the same property the teacher's own
// goleak-guarded package tests check for their connection-pool goroutines.
func TestDisposeLeavesNoGoroutinesRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(config.Default())
	_, err := e.Run(`
		function* gen() {
			yield 1;
			yield 2;
		}
		let g = gen();
		g.next();
		g.next();
		g.next(); // past completion: lets the generator's goroutine return

		async function f() {
			return await Promise.resolve(1);
		}
		f();
	`)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	e.Dispose()
}
