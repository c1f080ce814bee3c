package ops

import (
	"fmt"
	"math"

	"github.com/born-ml/wordgen/internal/tensor"
)

// CrossEntropyOp represents the mean cross-entropy loss over a batch.
//
// Forward:
//
//	Loss = mean(-log_softmax(logits)[targets])
//
// with log_softmax(z) = z - (max(z) + log(Σ exp(z - max(z)))).
//
// Backward:
//
//	∂L/∂logits = (softmax(logits) - y_one_hot) / batch_size
//
// Logits are [batch_size, num_classes] float32, targets [batch_size] int32.
type CrossEntropyOp struct {
	node
	targets *tensor.RawTensor
}

// NewCrossEntropyOp creates a new cross-entropy operation.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{
		node:    newNode(output, logits),
		targets: targets,
	}
}

// Backward computes the gradient with respect to logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	logits := op.inputs[0]
	batchSize, numClasses := logits.Shape()[0], logits.Shape()[1]

	logitsGrad := tensor.MustRaw(logits.Shape(), tensor.Float32, logits.Device())
	grad := logitsGrad.AsFloat32()
	data := logits.AsFloat32()
	targets := op.targets.AsInt32()

	// Respect the upstream gradient (1 for a loss).
	scale := outputGrad.AsFloat32()[0] / float32(batchSize)

	for b := 0; b < batchSize; b++ {
		row := grad[b*numClasses : (b+1)*numClasses]
		softmaxInto(row, data[b*numClasses:(b+1)*numClasses])
		row[targets[b]]--
		for i := range row {
			row[i] *= scale
		}
	}

	return []*tensor.RawTensor{logitsGrad}
}

// CrossEntropyForward computes the mean cross-entropy loss as a [1] tensor.
// It is usable outside an autodiff context.
func CrossEntropyForward(logits, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	logitsShape, targetsShape := logits.Shape(), targets.Shape()
	if len(logitsShape) != 2 {
		panic(fmt.Sprintf("crossEntropy: logits must be 2D [batch_size, num_classes], got %v", logitsShape))
	}
	if len(targetsShape) != 1 || targetsShape[0] != logitsShape[0] {
		panic(fmt.Sprintf("crossEntropy: targets %v do not match logits %v", targetsShape, logitsShape))
	}
	if logits.DType() != tensor.Float32 || targets.DType() != tensor.Int32 {
		panic(fmt.Sprintf("crossEntropy: want float32 logits and int32 targets, got %s and %s",
			logits.DType(), targets.DType()))
	}

	batchSize, numClasses := logitsShape[0], logitsShape[1]
	data := logits.AsFloat32()

	var total float64
	for b, t := range targets.AsInt32() {
		target := int(t)
		if target < 0 || target >= numClasses {
			panic(fmt.Sprintf("crossEntropy: target %d out of range [0, %d)", target, numClasses))
		}
		row := data[b*numClasses : (b+1)*numClasses]
		total += logSumExp(row) - float64(row[target])
	}

	output := tensor.MustRaw(tensor.Shape{1}, tensor.Float32, device)
	output.AsFloat32()[0] = float32(total / float64(batchSize))
	return output
}

// logSumExp returns max(z) + log(Σ exp(z - max(z))).
func logSumExp(z []float32) float64 {
	maxVal := z[0]
	for _, v := range z[1:] {
		maxVal = max(maxVal, v)
	}
	var sum float64
	for _, v := range z {
		sum += math.Exp(float64(v - maxVal))
	}
	return float64(maxVal) + math.Log(sum)
}

// softmaxInto writes softmax(z) into dst.
func softmaxInto(dst, z []float32) {
	lse := logSumExp(z)
	for i, v := range z {
		dst[i] = float32(math.Exp(float64(v) - lse))
	}
}
