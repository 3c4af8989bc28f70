package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

type activation int

const (
	actReLU activation = iota
	actSigmoid
)

func (a activation) String() string {
	if a == actSigmoid {
		return "sigmoid"
	}
	return "relu"
}

// denseLayer is one fully connected layer: out = act(W*in + b).
type denseLayer struct {
	w   *mat.Dense    // outDim x inDim
	b   *mat.VecDense // outDim
	act activation
}

// Decoder maps a latent vector to a flattened image. Hidden layers use
// ReLU; the output layer uses sigmoid so every pixel lands in [0,1]. No
// state survives a call except the weights themselves.
type Decoder struct {
	inputDim  int
	outputDim int
	layers    []*denseLayer
}

// NewDecoder builds the stack inputDim -> hidden... -> outputDim with
// Glorot-uniform weights and zero biases drawn from the seeded PRNG.
func NewDecoder(inputDim int, hidden []int, outputDim int, rng *rand.Rand) *Decoder {
	if inputDim <= 0 || outputDim <= 0 {
		panic(fmt.Sprintf("model: invalid decoder dims %d -> %d", inputDim, outputDim))
	}
	dims := make([]int, 0, len(hidden)+2)
	dims = append(dims, inputDim)
	dims = append(dims, hidden...)
	dims = append(dims, outputDim)

	layers := make([]*denseLayer, 0, len(dims)-1)
	for l := 0; l < len(dims)-1; l++ {
		in, out := dims[l], dims[l+1]
		if in <= 0 || out <= 0 {
			panic(fmt.Sprintf("model: invalid layer width %d -> %d", in, out))
		}
		limit := math.Sqrt(6 / float64(in+out))
		data := make([]float64, out*in)
		for i := range data {
			data[i] = (rng.Float64()*2 - 1) * limit
		}
		act := actReLU
		if l == len(dims)-2 {
			act = actSigmoid
		}
		layers = append(layers, &denseLayer{
			w:   mat.NewDense(out, in, data),
			b:   mat.NewVecDense(out, nil),
			act: act,
		})
	}
	return &Decoder{inputDim: inputDim, outputDim: outputDim, layers: layers}
}

// InputDim reports the latent dimensionality the decoder accepts.
func (d *Decoder) InputDim() int { return d.inputDim }

// OutputDim reports the flattened image length the decoder emits.
func (d *Decoder) OutputDim() int { return d.outputDim }

// Tape records the per-layer activations of one forward pass so Backward
// can replay it. It is valid only for the weights as of that pass.
type Tape struct {
	input []float64
	acts  [][]float64 // post-activation output of each layer
}

// Decode runs inference only.
func (d *Decoder) Decode(z []float64) []float64 {
	out, _ := d.Forward(z)
	return out
}

// Forward evaluates the stack and returns the output plus the tape needed
// for Backward. The returned output slice is owned by the caller.
func (d *Decoder) Forward(z []float64) ([]float64, *Tape) {
	if len(z) != d.inputDim {
		panic(fmt.Sprintf("model: decoder got %d-dim input, want %d", len(z), d.inputDim))
	}
	tp := &Tape{
		input: append([]float64(nil), z...),
		acts:  make([][]float64, len(d.layers)),
	}
	in := tp.input
	for l, layer := range d.layers {
		rows, _ := layer.w.Dims()
		out := make([]float64, rows)
		y := mat.NewVecDense(rows, out)
		y.MulVec(layer.w, mat.NewVecDense(len(in), in))
		y.AddVec(y, layer.b)
		switch layer.act {
		case actSigmoid:
			for i := range out {
				out[i] = sigmoid(out[i])
			}
		default:
			for i := range out {
				out[i] = relu(out[i])
			}
		}
		tp.acts[l] = out
		in = out
	}
	final := tp.acts[len(tp.acts)-1]
	return append([]float64(nil), final...), tp
}

// Gradients mirrors the decoder's parameter tensors.
type Gradients struct {
	w []*mat.Dense
	b []*mat.VecDense
}

// Slices exposes the gradients as flat float64 slices in the same order
// Params uses: w0, b0, w1, b1, ...
func (g *Gradients) Slices() [][]float64 {
	out := make([][]float64, 0, 2*len(g.w))
	for i := range g.w {
		out = append(out, g.w[i].RawMatrix().Data, g.b[i].RawVector().Data)
	}
	return out
}

// Params exposes the live parameter storage as flat slices for the
// optimizer, ordered w0, b0, w1, b1, ...
func (d *Decoder) Params() [][]float64 {
	out := make([][]float64, 0, 2*len(d.layers))
	for _, l := range d.layers {
		out = append(out, l.w.RawMatrix().Data, l.b.RawVector().Data)
	}
	return out
}

// Backward computes the gradient of a scalar loss with respect to every
// weight, every bias, and the input vector, given dOut = dLoss/dOutput
// from the forward pass recorded on tp.
func (d *Decoder) Backward(tp *Tape, dOut []float64) (*Gradients, []float64) {
	last := len(d.layers) - 1
	if len(dOut) != len(tp.acts[last]) {
		panic(fmt.Sprintf("model: backward got %d-dim output gradient, want %d",
			len(dOut), len(tp.acts[last])))
	}
	grads := &Gradients{
		w: make([]*mat.Dense, len(d.layers)),
		b: make([]*mat.VecDense, len(d.layers)),
	}

	// delta starts as dLoss/dPreactivation of the output layer.
	delta := make([]float64, len(dOut))
	copy(delta, dOut)
	mulActDeriv(delta, tp.acts[last], d.layers[last].act)

	for l := last; l >= 0; l-- {
		layer := d.layers[l]
		rows, cols := layer.w.Dims()

		in := tp.input
		if l > 0 {
			in = tp.acts[l-1]
		}
		deltaVec := mat.NewVecDense(rows, delta)

		gw := mat.NewDense(rows, cols, nil)
		gw.Outer(1, deltaVec, mat.NewVecDense(cols, in))
		grads.w[l] = gw
		grads.b[l] = mat.NewVecDense(rows, append([]float64(nil), delta...))

		prev := make([]float64, cols)
		prevVec := mat.NewVecDense(cols, prev)
		prevVec.MulVec(layer.w.T(), deltaVec)
		if l > 0 {
			mulActDeriv(prev, tp.acts[l-1], d.layers[l-1].act)
		}
		delta = prev
	}
	return grads, delta
}

// mulActDeriv scales delta in place by the activation derivative, computed
// from the post-activation values.
func mulActDeriv(delta, act []float64, a activation) {
	switch a {
	case actSigmoid:
		for i := range delta {
			delta[i] *= act[i] * (1 - act[i])
		}
	default:
		for i := range delta {
			if act[i] <= 0 {
				delta[i] = 0
			}
		}
	}
}

// LayerSnapshot is the serializable form of one dense layer.
type LayerSnapshot struct {
	InputDim   int         `json:"input_dim"`
	OutputDim  int         `json:"output_dim"`
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
}

// Snapshot is the serializable form of the whole decoder.
type Snapshot struct {
	InputDim int             `json:"input_dim"`
	Layers   []LayerSnapshot `json:"layers"`
}

// Snapshot copies the current weights into a serializable value.
func (d *Decoder) Snapshot() Snapshot {
	snap := Snapshot{InputDim: d.inputDim, Layers: make([]LayerSnapshot, len(d.layers))}
	for l, layer := range d.layers {
		rows, cols := layer.w.Dims()
		ls := LayerSnapshot{
			InputDim:   cols,
			OutputDim:  rows,
			Activation: layer.act.String(),
			Weights:    make([][]float64, rows),
			Biases:     append([]float64(nil), layer.b.RawVector().Data...),
		}
		for r := 0; r < rows; r++ {
			ls.Weights[r] = append([]float64(nil), layer.w.RawRowView(r)...)
		}
		snap.Layers[l] = ls
	}
	return snap
}
