// Package main is a small demo CLI for aotgraph: it builds the
// smallest graph that exercises a static operator, a trainable
// parameter and a loss output, then prints the forward loss and the
// backward gradient.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aotgraph/aotgraph/internal/executor"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
)

func main() {
	x := flag.Float64("x", 3, "input value")
	w := flag.Float64("w", -2, "initial weight value")
	seed := flag.Float64("seed", 1, "upstream gradient seed for Backward")
	flag.Parse()

	g := graph.NewGraph()
	in := g.Input(tensor.Shape{1}, false)
	weight := g.Param(tensor.Shape{1}, graph.DataInit([]float64{*w}), true)

	product, err := g.Op(graph.MUL, []graph.Symbol{in, weight}, nil)
	if err != nil {
		log.Fatalf("building mul node: %v", err)
	}
	activated, err := g.Op(graph.RELU, []graph.Symbol{product[0]}, nil)
	if err != nil {
		log.Fatalf("building relu node: %v", err)
	}
	if err := g.Out(activated[0]); err != nil {
		log.Fatalf("declaring output: %v", err)
	}
	if err := g.Loss(activated[0]); err != nil {
		log.Fatalf("declaring loss: %v", err)
	}

	model, err := executor.NewModel[float64](g)
	if err != nil {
		log.Fatalf("building model: %v", err)
	}

	loss, err := model.Forward(tensor.FromData[float64](tensor.Shape{1}, []float64{*x}))
	if err != nil {
		log.Fatalf("forward: %v", err)
	}
	fmt.Printf("loss = relu(%g * %g) = %g\n", *x, *w, loss.Load(0))

	if err := model.Backward(tensor.FromData[float64](tensor.Shape{1}, []float64{*seed})); err != nil {
		log.Fatalf("backward: %v", err)
	}
	grad, ok := model.Grad(weight)
	if !ok {
		log.Fatal("expected a gradient for the trainable weight")
	}
	fmt.Printf("d(loss)/dw = %g\n", grad.Load(0))
}
