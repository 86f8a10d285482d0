package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

func TestStandardScaler_TrainStatistics(t *testing.T) {
	// Scaling the data the scaler was fitted on must give column means ≈ 0
	// and standard deviations ≈ 1.
	X := mat.NewDense(6, 2, []float64{
		48, 118,
		61, 135,
		35, 110,
		52, 128,
		44, 121,
		70, 142,
	})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		var mean float64
		for i := 0; i < r; i++ {
			mean += scaled.At(i, j)
		}
		mean /= float64(r)
		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d mean = %v, want ~0", j, mean)
		}

		var variance float64
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			variance += d * d
		}
		variance /= float64(r)
		if math.Abs(math.Sqrt(variance)-1.0) > 1e-10 {
			t.Errorf("column %d std = %v, want ~1", j, math.Sqrt(variance))
		}
	}
}

func TestStandardScaler_NoRefitOnTransform(t *testing.T) {
	train := mat.NewDense(4, 1, []float64{10, 20, 30, 40})
	test := mat.NewDense(2, 1, []float64{25, 50})

	scaler := NewStandardScaler()
	if err := scaler.Fit(train); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	mean, scale := scaler.Mean[0], scaler.Scale[0]

	out, err := scaler.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	// Transform must use the training statistics, not refit on test data.
	if scaler.Mean[0] != mean || scaler.Scale[0] != scale {
		t.Error("Transform() changed fitted statistics")
	}
	want := (25.0 - mean) / scale
	if math.Abs(out.At(0, 0)-want) > 1e-10 {
		t.Errorf("Transform()[0] = %v, want %v", out.At(0, 0), want)
	}
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 100, 2, 110, 3, 130})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(back.At(i, j)-X.At(i, j)) > 1e-10 {
				t.Errorf("InverseTransform()[%d,%d] = %v, want %v", i, j, back.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScaler_ConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// Constant feature centers to 0 with scale forced to 1.
	for i := 0; i < 3; i++ {
		if scaled.At(i, 0) != 0 {
			t.Errorf("scaled[%d] = %v, want 0", i, scaled.At(i, 0))
		}
	}
}

func TestStandardScaler_NotFitted(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Transform() on unfitted scaler: expected error")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(3, 3, nil))
	if err == nil {
		t.Fatal("Transform() with wrong width: expected error")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}
