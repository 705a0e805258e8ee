package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/config"
	"github.com/cwbudde/ecmalite/internal/object"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(config.Default())
	t.Cleanup(e.Dispose)
	return e
}

func TestEvaluateArithmeticExpression(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate("1 + 2 * 3;")
	require.NoError(t, err)
	num, ok := v.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, float64(7), num.Value)
}

func TestEvaluateStringConcatenation(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`"foo" + "bar";`)
	require.NoError(t, err)
	str, ok := v.(*object.String)
	require.True(t, ok)
	assert.Equal(t, "foobar", str.Value)
}

func TestEvaluateVariablesAndScoping(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let x = 10;
		{
			let x = 20;
		}
		x;
	`)
	require.NoError(t, err)
	num, ok := v.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, float64(10), num.Value, "inner block's let must not leak into the outer scope")
}

func TestEvaluateIfElse(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let x = 5;
		let result;
		if (x > 3) {
			result = "big";
		} else {
			result = "small";
		}
		result;
	`)
	require.NoError(t, err)
	assert.Equal(t, "big", v.(*object.String).Value)
}

func TestEvaluateWhileLoop(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let i = 0;
		let sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`)
	require.NoError(t, err)
	assert.Equal(t, float64(10), v.(*object.Number).Value)
}

func TestEvaluateForLoop(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let acc = 0;
		for (let i = 0; i < 4; i = i + 1) {
			acc = acc + i;
		}
		acc;
	`)
	require.NoError(t, err)
	assert.Equal(t, float64(6), v.(*object.Number).Value)
}

func TestEvaluateFunctionCallAndClosure(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		function makeAdder(x) {
			return function(y) {
				return x + y;
			};
		}
		let add5 = makeAdder(5);
		add5(3);
	`)
	require.NoError(t, err)
	assert.Equal(t, float64(8), v.(*object.Number).Value)
}

func TestEvaluateClassInstantiationAndMethods(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		class Point {
			constructor(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		let p = new Point(2, 3);
		p.sum();
	`)
	require.NoError(t, err)
	assert.Equal(t, float64(5), v.(*object.Number).Value)
}

func TestEvaluateClassInheritanceAndSuper(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		class Animal {
			constructor(name) {
				this.name = name;
			}
			speak() {
				return this.name + " makes a sound";
			}
		}
		class Dog extends Animal {
			speak() {
				return super.speak() + " (bark)";
			}
		}
		let d = new Dog("Rex");
		d.speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "Rex makes a sound (bark)", v.(*object.String).Value)
}

func TestEvaluateTryCatchFinally(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let log = "";
		try {
			throw "boom";
		} catch (e) {
			log = log + "caught:" + e;
		} finally {
			log = log + ":done";
		}
		log;
	`)
	require.NoError(t, err)
	assert.Equal(t, "caught:boom:done", v.(*object.String).Value)
}

func TestEvaluateUncaughtThrowReturnsError(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`throw "nope";`)
	assert.Error(t, err)
}

func TestEvaluateSwitchStatement(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let x = 2;
		let result;
		switch (x) {
			case 1:
				result = "one";
				break;
			case 2:
				result = "two";
				break;
			default:
				result = "other";
		}
		result;
	`)
	require.NoError(t, err)
	assert.Equal(t, "two", v.(*object.String).Value)
}

func TestEvaluateMathBuiltins(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate("Math.max(3, 7, 1);")
	require.NoError(t, err)
	assert.Equal(t, float64(7), v.(*object.Number).Value)
}

func TestEvaluateJSONRoundTrip(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let obj = { a: 1, b: "two" };
		let s = JSON.stringify(obj);
		let parsed = JSON.parse(s);
		parsed.a + parsed.b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "1two", v.(*object.String).Value)
}

func TestRunDrainsGeneratorValues(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		function* counter() {
			yield 1;
			yield 2;
			yield 3;
		}
		let g = counter();
		let total = 0;
		let r = g.next();
		while (!r.done) {
			total = total + r.value;
			r = g.next();
		}
		total;
	`)
	require.NoError(t, err)
	assert.Equal(t, float64(6), v.(*object.Number).Value)
}

func TestRunDrainsPromiseChain(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		let result = 0;
		Promise.resolve(21).then(x => x * 2).then(x => {
			result = x;
		});
		result;
	`)
	require.NoError(t, err)
	// Evaluate's completion value is captured before the microtask queue
	// drains; Run only guarantees the queue is empty by the time it returns,
	// not that `result` was reassigned before the synchronous completion
	// value was read.
	_ = v
	assert.NotNil(t, v)
}

func TestRunDrainsAsyncAwait(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		async function compute() {
			let a = await Promise.resolve(4);
			let b = await Promise.resolve(5);
			return a + b;
		}
		let p = compute();
		p;
	`)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestSetGlobalFunctionIsCallableFromScript(t *testing.T) {
	e := newEngine(t)
	var captured []object.Value
	e.SetGlobalFunction("record", func(this object.Value, args []object.Value) (object.Value, error) {
		captured = args
		return &object.Undefined{}, nil
	})

	_, err := e.Evaluate(`record(1, "two");`)
	require.NoError(t, err)
	require.Len(t, captured, 2)
	assert.Equal(t, float64(1), captured[0].(*object.Number).Value)
	assert.Equal(t, "two", captured[1].(*object.String).Value)
}

func TestExceptionsStreamReceivesUncaughtThrow(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`throw "oops";`)
	require.Error(t, err)

	select {
	case ex := <-e.Exceptions():
		assert.Equal(t, "evaluate", ex.Context)
	default:
		t.Fatal("expected an exception on the stream")
	}
}

func TestDisposeIsIdempotentAndRejectsFurtherUse(t *testing.T) {
	e := New(config.Default())
	e.Dispose()
	e.Dispose() // must not panic

	_, err := e.Evaluate("1;")
	assert.Error(t, err)
}

func TestParseErrorReturnsSyntaxError(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate("let x = ;")
	assert.Error(t, err)
}

func TestGeneratorYieldOutsideGeneratorIsRejectedBeforeEvaluation(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`function f() { yield 1; }`)
	assert.Error(t, err)
}

func TestEvaluateMapConstructionAndAccessors(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let m = new Map();
		m.set('a', 1).set('b', 2);
		m.size;
	`)
	require.NoError(t, err)
	num, ok := v.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, float64(2), num.Value)
}

func TestEvaluateMapGetHasDelete(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let m = new Map();
		m.set('a', 1);
		let report = [m.get('a'), m.has('a'), m.delete('a'), m.has('a'), m.get('a')];
		report;
	`)
	require.NoError(t, err)
	arr, ok := v.(*object.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 5)
	assert.Equal(t, float64(1), arr.Elements[0].(*object.Number).Value)
	assert.Equal(t, true, arr.Elements[1].(*object.Boolean).Value)
	assert.Equal(t, true, arr.Elements[2].(*object.Boolean).Value)
	assert.Equal(t, false, arr.Elements[3].(*object.Boolean).Value)
	_, isUndef := arr.Elements[4].(*object.Undefined)
	assert.True(t, isUndef)
}

func TestEvaluateWeakMapRejectsPrimitiveKeys(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`
		let wm = new WeakMap();
		wm.set('x', 1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid value used as weak map key")
}

func TestEvaluateWeakMapAcceptsObjectKeys(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let wm = new WeakMap();
		let key = {};
		wm.set(key, "stored");
		wm.get(key);
	`)
	require.NoError(t, err)
	str, ok := v.(*object.String)
	require.True(t, ok)
	assert.Equal(t, "stored", str.Value)
}

func TestEvaluateNewPromiseRunsExecutorSynchronously(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		let result = 0;
		new Promise((resolve, reject) => {
			resolve(42);
		}).then(x => {
			result = x;
		});
		result;
	`)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestEvaluateMixedBigIntArithmeticRaises(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`10n + 5;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot mix BigInt")
}

func TestEvaluateMixedBigIntSubtractionRaises(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`10n - 5;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot mix BigInt")
}

func TestEvaluateBigIntArithmetic(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`
		let x = 10n;
		let y = 20n;
		x + y * 2n;
	`)
	require.NoError(t, err)
	bi, ok := v.(*object.BigInt)
	require.True(t, ok)
	assert.Equal(t, "50", bi.Value.String())
}

func TestEvaluateBigIntDivideByZeroRaises(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`5n / 0n;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestEvaluateBigIntModuloByZeroRaises(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`5n % 0n;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestEvaluateBigIntExponentiation(t *testing.T) {
	e := newEngine(t)
	v, err := e.Evaluate(`2n ** 3n;`)
	require.NoError(t, err)
	bi, ok := v.(*object.BigInt)
	require.True(t, ok)
	assert.Equal(t, "8", bi.Value.String())
}

func TestEvaluateBigIntNegativeExponentRaises(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(`2n ** -1n;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Exponent must be non-negative")
}
