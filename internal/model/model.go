// Package model implements the character-level MLP word model.
//
// Architecture (Bengio et al. 2003, as popularized by makemore):
//
//	context [N, block]  --C-->  [N, block, emb]  --reshape-->  [N, block*emb]
//	h      = tanh(x @ W1 + b1)                                 [N, hidden]
//	logits = h @ W2 + b2                                        [N, 27]
//	loss   = mean cross-entropy(logits, targets)
//
// A Model is not safe for concurrent use; the worker goroutine owns it.
package model

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/dataset"
	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/nn"
	"github.com/born-ml/wordgen/internal/optim"
	"github.com/born-ml/wordgen/internal/tensor"
	"github.com/born-ml/wordgen/internal/vocab"
)

// Sink receives the results a Model emits.
type Sink func(message.Result)

// Model owns the five trainable parameters and, once loaded, a dataset.
type Model[B autodiff.BackwardCapable] struct {
	hp      Hyperparameters
	backend B
	logger  *slog.Logger
	src     rand.Source
	rng     *rand.Rand

	// Fixed order: C, W1, b1, W2, b2.
	params    []*nn.Parameter[B]
	optimizer *optim.SGD[B]

	data *dataset.Dataset[B]
}

// Option configures a Model.
type Option func(*options)

type options struct {
	src    rand.Source
	logger *slog.Logger
}

// WithSource seeds initialization, batch sampling and generation.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Model with freshly initialized parameters:
//
//	C  ~ U[0, 1)                         [27, emb]
//	W1 ~ N(0, 1) * (5/3)/sqrt(emb*block) [emb*block, hidden]
//	b1 ~ N(0, 1) * 0.01                  [hidden]
//	W2 ~ N(0, 1) * 0.01                  [hidden, 27]
//	b2 = 0                               [27]
func New[B autodiff.BackwardCapable](hp Hyperparameters, backend B, opts ...Option) (m *Model[B], err error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("initialize model: %w", err)
		}
	}()
	defer recoverError(&err)

	fanIn := hp.EmbeddingSize * hp.BlockSize
	params := []*nn.Parameter[B]{
		nn.NewParameter("C", nn.Uniform(tensor.Shape{vocab.Size, hp.EmbeddingSize}, 0, 1, backend, o.src)),
		nn.NewParameter("W1", nn.ScaledNormal(tensor.Shape{fanIn, hp.HiddenSize}, (5.0/3.0)/math.Sqrt(float64(fanIn)), backend, o.src)),
		nn.NewParameter("b1", nn.ScaledNormal(tensor.Shape{hp.HiddenSize}, 0.01, backend, o.src)),
		nn.NewParameter("W2", nn.ScaledNormal(tensor.Shape{hp.HiddenSize, vocab.Size}, 0.01, backend, o.src)),
		nn.NewParameter("b2", nn.Zeros(tensor.Shape{vocab.Size}, backend)),
	}

	return &Model[B]{
		hp:        hp,
		backend:   backend,
		logger:    o.logger,
		src:       o.src,
		rng:       rand.New(o.src),
		params:    params,
		optimizer: optim.NewSGD(params, optim.SGDConfig{LR: hp.LearnRate}, backend),
	}, nil
}

// Hyperparameters returns the model's hyperparameters.
func (m *Model[B]) Hyperparameters() Hyperparameters {
	return m.hp
}

// Parameters returns the trainable parameters in update order.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	return m.params
}

// Dataset returns the loaded dataset, or nil.
func (m *Model[B]) Dataset() *dataset.Dataset[B] {
	return m.data
}

// LoadData builds the dataset at path and attaches it, replacing any
// previous one.
func (m *Model[B]) LoadData(path string) error {
	ds, err := dataset.BuildWithRand(path, m.hp.BlockSize, m.backend, m.rng)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	m.SetDataset(ds)
	m.logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("train_rows", ds.Train.Rows()),
		slog.Int("validation_rows", ds.Validation.Rows()))
	return nil
}

// SetDataset attaches an already built dataset. Its block size must match.
func (m *Model[B]) SetDataset(ds *dataset.Dataset[B]) {
	m.data = ds
}

// Logits runs the network on inputs [rows, block] and returns [rows, 27].
func (m *Model[B]) Logits(inputs *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	c, w1, b1, w2, b2 := m.params[0].Tensor(), m.params[1].Tensor(), m.params[2].Tensor(), m.params[3].Tensor(), m.params[4].Tensor()

	rows := inputs.Shape()[0]
	emb := c.Embedding(inputs).Reshape(rows, m.hp.BlockSize*m.hp.EmbeddingSize)
	h := nn.Tanh(emb.MatMul(w1).Add(b1))
	return h.MatMul(w2).Add(b2)
}

// Forward returns the mean cross-entropy loss of inputs against targets.
// It does not modify the parameters.
func (m *Model[B]) Forward(inputs, targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return nn.CrossEntropy(m.Logits(inputs), targets)
}

// Backpropagate computes gradients of loss, which must have been produced
// with the tape recording, and replaces every parameter with
// param - grad*learn_rate. Recording is stopped and the tape cleared.
func (m *Model[B]) Backpropagate(loss *tensor.Tensor[float32, B]) error {
	tape := m.backend.GetTape()
	if tape.NumOps() == 0 {
		return fmt.Errorf("backpropagate: no recorded operations: %w", ErrMissingGradient)
	}

	grads := autodiff.Backward(loss, m.backend)
	tape.StopRecording()
	tape.Clear()

	return m.optimizer.Step(grads)
}
