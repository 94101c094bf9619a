package rescue

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"

	"rescuecipher/internal/native"
	"rescuecipher/internal/params"
)

var field = ecc.BN254.ScalarField()

// cipherCircuit encrypts Plaintext, checks the result against Ciphertext and
// decrypts it back.
type cipherCircuit struct {
	Params     Variables
	Key        []frontend.Variable
	Plaintext  []frontend.Variable
	Ciphertext []frontend.Variable `gnark:",public"`

	Shape params.Shape `gnark:"-"`
}

func newCipherCircuit(shape params.Shape) *cipherCircuit {
	return &cipherCircuit{
		Params:     NewVariables(shape),
		Key:        make([]frontend.Variable, shape.Width),
		Plaintext:  make([]frontend.Variable, shape.Width),
		Ciphertext: make([]frontend.Variable, shape.Width),
		Shape:      shape,
	}
}

func (c *cipherCircuit) Define(api frontend.API) error {
	r, err := Materialize(api, c.Shape, c.Params)
	if err != nil {
		return err
	}
	ct, err := r.Encrypt(api, c.Key, c.Plaintext)
	if err != nil {
		return err
	}
	for i := range ct {
		api.AssertIsEqual(ct[i], c.Ciphertext[i])
	}
	pt, err := r.Decrypt(api, c.Key, ct)
	if err != nil {
		return err
	}
	for i := range pt {
		api.AssertIsEqual(pt[i], c.Plaintext[i])
	}
	return nil
}

type fixture struct {
	params     *params.Parameters
	key        []fr.Element
	plaintext  []fr.Element
	ciphertext []fr.Element
}

func newFixture(t *testing.T, shape params.Shape) fixture {
	t.Helper()
	p, err := params.Generate(rand.Reader, shape)
	if err != nil {
		t.Fatalf("params.Generate failed: %v", err)
	}
	r, err := native.Materialize(p)
	if err != nil {
		t.Fatalf("native.Materialize failed: %v", err)
	}
	key := make([]fr.Element, shape.Width)
	pt := make([]fr.Element, shape.Width)
	for i := range key {
		key[i].SetRandom()
		pt[i].SetRandom()
	}
	ct, err := r.Encrypt(key, pt)
	if err != nil {
		t.Fatalf("native Encrypt failed: %v", err)
	}
	return fixture{params: p, key: key, plaintext: pt, ciphertext: ct}
}

func (f fixture) assignment() *cipherCircuit {
	return &cipherCircuit{
		Params:     Assign(f.params),
		Key:        Vector(params.BigInts(f.key)),
		Plaintext:  Vector(params.BigInts(f.plaintext)),
		Ciphertext: Vector(params.BigInts(f.ciphertext)),
	}
}

func TestCipherCircuit(t *testing.T) {
	shape := params.DefaultShape()
	f := newFixture(t, shape)

	t.Run("Valid witness", func(t *testing.T) {
		if err := test.IsSolved(newCipherCircuit(shape), f.assignment(), field); err != nil {
			t.Fatalf("circuit not satisfied: %v", err)
		}
	})

	t.Run("Wrong ciphertext", func(t *testing.T) {
		bad := f.assignment()
		var one fr.Element
		one.SetOne()
		tampered := f.ciphertext[1]
		tampered.Add(&tampered, &one)
		bad.Ciphertext[1] = tampered.BigInt(new(big.Int))
		if err := test.IsSolved(newCipherCircuit(shape), bad, field); err == nil {
			t.Fatal("circuit accepted a wrong ciphertext")
		}
	})

	t.Run("Wrong key", func(t *testing.T) {
		bad := f.assignment()
		bad.Key[0] = 12345
		if err := test.IsSolved(newCipherCircuit(shape), bad, field); err == nil {
			t.Fatal("circuit accepted a wrong key")
		}
	})

	t.Run("Round counts", func(t *testing.T) {
		for _, rounds := range []int{2, 3, 4, 8} {
			s := params.Shape{Width: 3, Rounds: rounds}
			f := newFixture(t, s)
			if err := test.IsSolved(newCipherCircuit(s), f.assignment(), field); err != nil {
				t.Errorf("R=%d: circuit not satisfied: %v", rounds, err)
			}
		}
	})
}

func TestCipherCircuitZeroInputs(t *testing.T) {
	shape := params.DefaultShape()
	p, err := params.Generate(rand.Reader, shape)
	if err != nil {
		t.Fatalf("params.Generate failed: %v", err)
	}
	r, err := native.Materialize(p)
	if err != nil {
		t.Fatalf("native.Materialize failed: %v", err)
	}
	zero := make([]fr.Element, 3)
	ct, err := r.Encrypt(zero, zero)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	f := fixture{params: p, key: zero, plaintext: zero, ciphertext: ct}
	if err := test.IsSolved(newCipherCircuit(shape), f.assignment(), field); err != nil {
		t.Fatalf("circuit not satisfied: %v", err)
	}
}

// matrixCircuit checks M * M^-1 = I over the materialized parameters.
type matrixCircuit struct {
	Params Variables
	Shape  params.Shape `gnark:"-"`
}

func (c *matrixCircuit) Define(api frontend.API) error {
	r, err := Materialize(api, c.Shape, c.Params)
	if err != nil {
		return err
	}
	for i := range r.Matrix {
		for j := range r.Inverse {
			col := []frontend.Variable{r.Inverse[0][j], r.Inverse[1][j], r.Inverse[2][j]}
			want := 0
			if i == j {
				want = 1
			}
			api.AssertIsEqual(DotProduct(api, r.Matrix[i], col), want)
		}
	}
	return nil
}

func TestMatrixInverseCircuit(t *testing.T) {
	shape := params.DefaultShape()
	p, err := params.Generate(rand.Reader, shape)
	if err != nil {
		t.Fatalf("params.Generate failed: %v", err)
	}
	circuit := &matrixCircuit{Params: NewVariables(shape), Shape: shape}
	if err := test.IsSolved(circuit, &matrixCircuit{Params: Assign(p)}, field); err != nil {
		t.Fatalf("M * M^-1 != I: %v", err)
	}
}

type guardOp int

const (
	opInvert guardOp = iota
	opBuildMDS
	opMaterialize
)

// guardCircuit runs one gadget over X and records the error it returns in Err,
// so that cleartext rejections can be told apart from unsatisfied constraints.
type guardCircuit struct {
	X []frontend.Variable

	Op     guardOp      `gnark:"-"`
	Shape  params.Shape `gnark:"-"`
	Params *Variables   `gnark:"-"`
	Err    *error       `gnark:"-"`
}

func (c *guardCircuit) Define(api frontend.API) error {
	var err error
	switch c.Op {
	case opInvert:
		_, err = Invert(api, squareMatrix(c.X))
	case opBuildMDS:
		half := len(c.X) / 2
		_, err = BuildMDS(api, c.X[:half], c.X[half:])
	case opMaterialize:
		_, err = Materialize(api, c.Shape, *c.Params)
	}
	*c.Err = err
	return nil
}

// runGuard solves a guardCircuit over x. With constants set, the gadgets see the
// values at definition time and reject bad inputs with an error; otherwise the
// same inputs can only make the circuit unsatisfiable.
func runGuard(c guardCircuit, x []frontend.Variable, constants bool) (gadgetErr, solveErr error) {
	c.X = make([]frontend.Variable, len(x))
	c.Err = &gadgetErr
	var opts []test.TestEngineOption
	if constants {
		opts = append(opts, test.SetAllVariablesAsConstants())
	}
	solveErr = test.IsSolved(&c, &guardCircuit{X: x}, field, opts...)
	return gadgetErr, solveErr
}

// squareMatrix lays x out row by row into a square matrix of size sqrt(len(x)).
func squareMatrix(x []frontend.Variable) Matrix {
	n := 0
	for n*n < len(x) {
		n++
	}
	m := newMatrix(n)
	for i := range m {
		for j := range m[i] {
			m[i][j] = x[(i*n+j)%len(x)]
		}
	}
	return m
}

func TestInvertUnsupportedSizes(t *testing.T) {
	for _, n := range []int{2, 4, 5} {
		x := make([]frontend.Variable, n*n)
		for i := range x {
			x[i] = i + 2
		}
		err, solveErr := runGuard(guardCircuit{Op: opInvert}, x, true)
		if solveErr != nil {
			t.Fatalf("n=%d: circuit failed: %v", n, solveErr)
		}
		if !errors.Is(err, params.ErrUnsupportedSize) {
			t.Errorf("n=%d: expected ErrUnsupportedSize, got %v", n, err)
		}
	}
}

func TestInvertSingular(t *testing.T) {
	// the outer rows of [[1,2,3],[4,5,6],[7,8,9]] add up to twice the middle one.
	x := Vector([]int{1, 2, 3, 4, 5, 6, 7, 8, 9})

	t.Run("Known values", func(t *testing.T) {
		err, solveErr := runGuard(guardCircuit{Op: opInvert}, x, true)
		if solveErr != nil {
			t.Fatalf("circuit failed: %v", solveErr)
		}
		if !errors.Is(err, params.ErrSingularMatrix) {
			t.Fatalf("expected ErrSingularMatrix, got %v", err)
		}
	})

	t.Run("Witness values", func(t *testing.T) {
		err, solveErr := runGuard(guardCircuit{Op: opInvert}, x, false)
		if err != nil {
			t.Fatalf("unexpected gadget error: %v", err)
		}
		if solveErr == nil {
			t.Fatal("circuit accepted a singular matrix")
		}
	})
}

func TestBuildMDSCollisions(t *testing.T) {
	tests := []struct {
		name string
		x, y []int
		want error
	}{
		{"Distinct", []int{1, 2, 3}, []int{4, 5, 6}, nil},
		{"Repeated x", []int{1, 1, 3}, []int{4, 5, 6}, params.ErrVectorCollision},
		{"Repeated y", []int{1, 2, 3}, []int{4, 6, 6}, params.ErrVectorCollision},
		{"Shared entry", []int{1, 2, 3}, []int{4, 5, 1}, params.ErrVectorCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append(Vector(tt.x), Vector(tt.y)...)
			err, solveErr := runGuard(guardCircuit{Op: opBuildMDS}, in, true)
			if solveErr != nil {
				t.Fatalf("circuit failed: %v", solveErr)
			}
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("Repeated x as witness", func(t *testing.T) {
		in := Vector([]int{1, 1, 3, 4, 5, 6})
		err, solveErr := runGuard(guardCircuit{Op: opBuildMDS}, in, false)
		if err != nil {
			t.Fatalf("unexpected gadget error: %v", err)
		}
		if solveErr == nil {
			t.Fatal("circuit accepted repeated x entries")
		}
	})
}

func TestMaterializeShapeMismatch(t *testing.T) {
	shape := params.DefaultShape()
	p, err := params.Generate(rand.Reader, shape)
	if err != nil {
		t.Fatalf("params.Generate failed: %v", err)
	}
	v := Assign(p)
	v.RoundConstants = v.RoundConstants[:shape.Rounds-1]

	err, solveErr := runGuard(guardCircuit{Op: opMaterialize, Shape: shape, Params: &v}, Vector([]int{0}), true)
	if solveErr != nil {
		t.Fatalf("circuit failed: %v", solveErr)
	}
	if !errors.Is(err, params.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

// sboxCircuit checks that the fifth root of V is W.
type sboxCircuit struct {
	V frontend.Variable
	W frontend.Variable `gnark:",public"`
}

func (c *sboxCircuit) Define(api frontend.API) error {
	w, err := InverseSBox(api, c.V)
	if err != nil {
		return err
	}
	api.AssertIsEqual(w, c.W)
	api.AssertIsEqual(SBox(api, c.W), c.V)
	return nil
}

func TestInverseSBox(t *testing.T) {
	exp, err := params.InverseExponent(field)
	if err != nil {
		t.Fatalf("InverseExponent failed: %v", err)
	}

	var v fr.Element
	v.SetRandom()
	w := native.InverseSBox(exp, v)

	t.Run("Fifth root", func(t *testing.T) {
		assignment := &sboxCircuit{V: v.BigInt(new(big.Int)), W: w.BigInt(new(big.Int))}
		if err := test.IsSolved(&sboxCircuit{}, assignment, field); err != nil {
			t.Fatalf("circuit not satisfied: %v", err)
		}
	})

	t.Run("Wrong root", func(t *testing.T) {
		var bad fr.Element
		bad.SetUint64(2)
		bad.Mul(&bad, &w)
		assignment := &sboxCircuit{V: v.BigInt(new(big.Int)), W: bad.BigInt(new(big.Int))}
		if err := test.IsSolved(&sboxCircuit{}, assignment, field); err == nil {
			t.Fatal("circuit accepted a wrong fifth root")
		}
	})

	t.Run("Zero", func(t *testing.T) {
		if err := test.IsSolved(&sboxCircuit{}, &sboxCircuit{V: 0, W: 0}, field); err != nil {
			t.Fatalf("circuit not satisfied: %v", err)
		}
	})
}

func TestCompile(t *testing.T) {
	shape := params.DefaultShape()
	ccs, err := frontend.Compile(field, r1cs.NewBuilder, newCipherCircuit(shape))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if ccs.GetNbConstraints() == 0 {
		t.Fatal("compiled circuit has no constraints")
	}
	t.Logf("%s: %d constraints, %d public inputs", shape, ccs.GetNbConstraints(), ccs.GetNbPublicVariables())
}
