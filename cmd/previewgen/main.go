// Command previewgen is the offline tool of record for the cart-table
// preview controller's baked constants (walk.aC, walk.bVec, walk.cRow,
// walk.kE, walk.kX, and the preview gain window). It solves the
// discrete-time Riccati equation for the cart-table system, derives the
// integral and state-feedback gains from the same solution, and iterates
// the preview-gain recursion, printing the results as Go literals ready to
// paste into walk/controller.go, and renders a plot of the resulting gain
// envelope. It is never imported by the
// runtime walk package; per spec.md §9, that package only ever consumes
// pre-baked constants.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/bowdoin-robotics/biped/walk"
)

func main() {
	tickHz := flag.Float64("tick-hz", 50, "motion tick rate, Hz")
	comHeightM := flag.Float64("com-height-m", 0.26, "cart-table pendulum height, meters")
	qZMP := flag.Float64("q-zmp", 1e6, "ZMP tracking weight in the Riccati cost")
	rInput := flag.Float64("r-input", 1, "jerk-input weight in the Riccati cost")
	plotPath := flag.String("plot", "", "optional path to write a PNG of the gain envelope")
	flag.Parse()

	dt := 1.0 / *tickHz
	sys := cartTableSystem(dt, *comHeightM)

	k, err := solveDARE(sys, *qZMP, *rInput)
	if err != nil {
		log.Fatalf("previewgen: %v", err)
	}

	weights := previewGains(sys, k, *qZMP, walk.NumPreviewFrames)
	kE, kX := feedbackGains(sys, k, *rInput)

	printGoLiterals(sys, weights, kE, kX)

	if *plotPath != "" {
		if err := renderPlot(*plotPath, weights, sys); err != nil {
			log.Fatalf("previewgen: rendering plot: %v", err)
		}
	}
}

// system holds the cart-table's discrete-time state-space matrices: state
// (position, velocity, acceleration), jerk input, and ZMP output.
type system struct {
	a *mat.Dense // 3x3 state transition
	b *mat.Dense // 3x1 input
	c *mat.Dense // 1x3 output (ZMP readout)
}

func cartTableSystem(dt, comHeightM float64) system {
	const g = 9.81
	a := mat.NewDense(3, 3, []float64{
		1, dt, dt * dt / 2,
		0, 1, dt,
		0, 0, 1,
	})
	b := mat.NewDense(3, 1, []float64{dt * dt * dt / 6, dt * dt / 2, dt})
	c := mat.NewDense(1, 3, []float64{1, 0, -comHeightM / g})
	return system{a: a, b: b, c: c}
}

// solveDARE finds the steady-state discrete algebraic Riccati equation
// solution for the cart-table's ZMP-tracking LQR problem by fixed-point
// iteration: P_{k+1} = A^T P_k A - A^T P_k B (R + B^T P_k B)^-1 B^T P_k A + C^T qZMP C.
// This is the Kajita preview-control weight derivation's first stage; it
// runs once, here, never inside the walk package.
func solveDARE(sys system, qZMP, rInput float64) (*mat.Dense, error) {
	n, _ := sys.a.Dims()
	p := mat.NewDense(n, n, nil)

	ctqc := mat.NewDense(n, n, nil)
	ctqc.Mul(sys.c.T(), sys.c)
	ctqc.Scale(qZMP, ctqc)

	var next mat.Dense
	for iter := 0; iter < 500; iter++ {
		var atp, atpa, atpb, btpb, btpa mat.Dense
		atp.Mul(sys.a.T(), p)
		atpa.Mul(&atp, sys.a)
		atpb.Mul(&atp, sys.b)
		btpb.Mul(sys.b.T(), p)
		var btpbb mat.Dense
		btpbb.Mul(&btpb, sys.b)
		btpa.Mul(sys.b.T(), p)
		var btpab mat.Dense
		btpab.Mul(&btpa, sys.a)

		denom := rInput + btpbb.At(0, 0)
		if denom == 0 {
			return nil, fmt.Errorf("singular Riccati iteration at step %d", iter)
		}

		var correction mat.Dense
		correction.Mul(&atpb, &btpab)
		correction.Scale(1/denom, &correction)

		next.Sub(&atpa, &correction)
		next.Add(&next, ctqc)

		var diff mat.Dense
		diff.Sub(&next, p)
		if mat.Norm(&diff, 2) < 1e-12 {
			p = &next
			break
		}
		pCopy := mat.DenseCopyOf(&next)
		p = pCopy
	}
	return p, nil
}

// previewGains iterates the standard preview-control recursion to produce
// the gain applied to each future ZMP reference sample in the window, from
// the nearest frame (index 0) to the furthest (index n-1).
func previewGains(sys system, p *mat.Dense, qZMP float64, n int) []float64 {
	var btpb mat.Dense
	btpb.Mul(sys.b.T(), p)
	var btpbb mat.Dense
	btpbb.Mul(&btpb, sys.b)
	denom := 1 + btpbb.At(0, 0)

	weights := make([]float64, n)
	x := mat.NewDense(3, 1, []float64{1, 0, 0})
	for i := 0; i < n; i++ {
		var cx mat.Dense
		cx.Mul(sys.c, x)
		weights[i] = qZMP * cx.At(0, 0) / denom
		var next mat.Dense
		next.Mul(sys.a, x)
		x = mat.DenseCopyOf(&next)
	}
	return weights
}

// feedbackGains derives the direct-state-feedback row kX and the
// tracking-error-integrator gain kE from the same Riccati solution p used
// for previewGains: kX = B^T P A / (R + B^T P B), kE = B^T P C^T /
// (R + B^T P B), the standard LQR gains for the cart-table's augmented
// (integral-action) formulation.
func feedbackGains(sys system, p *mat.Dense, rInput float64) (kE float64, kX [3]float64) {
	var btp, btpa, btpb mat.Dense
	btp.Mul(sys.b.T(), p)
	btpa.Mul(&btp, sys.a)
	btpb.Mul(&btp, sys.b)
	denom := rInput + btpb.At(0, 0)

	for i := 0; i < 3; i++ {
		kX[i] = btpa.At(0, i) / denom
	}

	var btpct mat.Dense
	btpct.Mul(&btp, sys.c.T())
	kE = btpct.At(0, 0) / denom
	return kE, kX
}

func printGoLiterals(sys system, weights []float64, kE float64, kX [3]float64) {
	fmt.Println("// generated by cmd/previewgen; paste into walk/controller.go")
	fmt.Print("var previewWeights = [NumPreviewFrames]float32{")
	for i, w := range weights {
		if i%8 == 0 {
			fmt.Print("\n\t")
		}
		fmt.Printf("%.8g, ", w)
	}
	fmt.Println("\n}")

	fmt.Printf("var aC = [3][3]float32{{%.6g, %.6g, %.6g}, {%.6g, %.6g, %.6g}, {%.6g, %.6g, %.6g}}\n",
		sys.a.At(0, 0), sys.a.At(0, 1), sys.a.At(0, 2),
		sys.a.At(1, 0), sys.a.At(1, 1), sys.a.At(1, 2),
		sys.a.At(2, 0), sys.a.At(2, 1), sys.a.At(2, 2))
	fmt.Printf("var bVec = [3]float32{%.6g, %.6g, %.6g}\n", sys.b.At(0, 0), sys.b.At(1, 0), sys.b.At(2, 0))
	fmt.Printf("var cRow = [3]float32{%.6g, %.6g, %.6g}\n", sys.c.At(0, 0), sys.c.At(0, 1), sys.c.At(0, 2))
	fmt.Printf("var kE float32 = %.6g\n", kE)
	fmt.Printf("var kX = [3]float32{%.6g, %.6g, %.6g}\n", kX[0], kX[1], kX[2])
}

func renderPlot(path string, weights []float64, sys system) error {
	p := plot.New()
	p.Title.Text = "preview gain envelope"
	p.X.Label.Text = "preview frame"
	p.Y.Label.Text = "gain"

	pts := make(plotter.XYs, len(weights))
	for i, w := range weights {
		pts[i].X = float64(i)
		pts[i].Y = w
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(f)
	return err
}
