package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{110, 118, 124, 131, 140}),
			yPred:     mat.NewVecDense(5, []float64{110, 118, 124, 131, 140}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "constant offset",
			yTrue:     mat.NewVecDense(4, []float64{120, 122, 124, 126}),
			yPred:     mat.NewVecDense(4, []float64{121, 123, 125, 127}),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			name:      "mixed errors",
			yTrue:     mat.NewVecDense(3, []float64{110, 120, 130}),
			yPred:     mat.NewVecDense(3, []float64{112, 118, 133}),
			want:      17.0 / 3.0, // (4 + 4 + 9) / 3
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{120, 122, 124, 126})
	yPred := mat.NewVecDense(4, []float64{122, 120, 126, 124})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-2.0) > 1e-10 {
		t.Errorf("RMSE() = %v, want 2.0", got)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "identical vectors give 1",
			yTrue:     mat.NewVecDense(5, []float64{110, 118, 124, 131, 140}),
			yPred:     mat.NewVecDense(5, []float64{110, 118, 124, 131, 140}),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			// Predicting the observed mean everywhere explains nothing.
			name:      "mean prediction gives 0",
			yTrue:     mat.NewVecDense(4, []float64{100, 110, 120, 130}),
			yPred:     mat.NewVecDense(4, []float64{115, 115, 115, 115}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "partial fit",
			yTrue:     mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2, 3, 3.5}),
			want:      1 - 0.5/5.0,
			tolerance: 1e-10,
		},
		{
			name:    "no variance in yTrue",
			yTrue:   mat.NewVecDense(3, []float64{120, 120, 120}),
			yPred:   mat.NewVecDense(3, []float64{119, 120, 121}),
			wantErr: true,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{110, 120, 130})
	yPred := mat.NewVecDense(3, []float64{112, 118, 133})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	want := 7.0 / 3.0
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("MAE() = %v, want %v", got, want)
	}
}

func TestResiduals(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{110, 120, 130})
	yPred := mat.NewVecDense(3, []float64{112, 118, 130})

	res, err := Residuals(yTrue, yPred)
	if err != nil {
		t.Fatalf("Residuals() error = %v", err)
	}

	want := []float64{-2, 2, 0}
	for i, w := range want {
		if math.Abs(res.AtVec(i)-w) > 1e-10 {
			t.Errorf("Residuals()[%d] = %v, want %v", i, res.AtVec(i), w)
		}
	}
}

func TestColumnVec(t *testing.T) {
	if _, err := ColumnVec(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err == nil {
		t.Error("ColumnVec() expected error for 2-column matrix")
	}

	v, err := ColumnVec(mat.NewDense(3, 1, []float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("ColumnVec() error = %v", err)
	}
	if v.Len() != 3 || v.AtVec(2) != 3 {
		t.Errorf("ColumnVec() = %v", v)
	}
}

func TestR2ScoreMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{100, 110, 120, 130})
	yPred := mat.NewDense(4, 1, []float64{100, 110, 120, 130})

	got, err := R2ScoreMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2ScoreMatrix() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-10 {
		t.Errorf("R2ScoreMatrix() = %v, want 1.0", got)
	}
}
