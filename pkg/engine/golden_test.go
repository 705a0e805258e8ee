package engine

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/config"
)

// TestEvaluateGoldenOutputSnapshot pins the formatted completion value of a
// small representative script against a checked-in snapshot, the same
// golden-output style the teacher's fixture suite uses for full program
// runs (there every fixture's interpreter output is snapshotted; here one
// representative script stands in for a test-fixture corpus this project
// doesn't have).
func TestEvaluateGoldenOutputSnapshot(t *testing.T) {
	e := New(config.Default())
	t.Cleanup(e.Dispose)

	v, err := e.Evaluate(`
		class Shape {
			constructor(name) {
				this.name = name;
			}
			describe() {
				return this.name + " has area " + this.area();
			}
		}
		class Square extends Shape {
			constructor(side) {
				super("square");
				this.side = side;
			}
			area() {
				return this.side * this.side;
			}
		}
		let shapes = [new Square(2), new Square(5)];
		shapes.map(s => s.describe()).join(", ");
	`)
	require.NoError(t, err)

	snaps.MatchSnapshot(t, "shapes_describe", v.String())
}
