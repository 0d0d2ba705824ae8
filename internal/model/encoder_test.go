package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajdeep-017/suraksha-net/internal/model"
)

func TestLabelEncoder_Transform(t *testing.T) {
	enc := model.NewLabelEncoder([]string{"Clear", "Cloudy", "Rainy"})

	code, ok := enc.Transform("Rainy")
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	code, ok = enc.Transform("Hurricane")
	assert.False(t, ok)
	assert.Equal(t, 0, code)
}

func TestLabelEncoder_IndexOf(t *testing.T) {
	// The severity encoder's fitted ordering is alphabetical from training.
	enc := model.NewLabelEncoder([]string{"High", "Low", "Medium"})

	assert.Equal(t, 0, enc.IndexOf("High"))
	assert.Equal(t, 2, enc.IndexOf("Medium"))
	assert.Equal(t, -1, enc.IndexOf("Critical"))
}

func TestLabelEncoder_UnmarshalJSON(t *testing.T) {
	var enc model.LabelEncoder
	require.NoError(t, json.Unmarshal([]byte(`["Dry","Wet","Slippery"]`), &enc))

	assert.Equal(t, 3, enc.Len())
	assert.Equal(t, []string{"Dry", "Wet", "Slippery"}, enc.Classes())

	code, ok := enc.Transform("Slippery")
	assert.True(t, ok)
	assert.Equal(t, 2, code)
}

func TestStandardScaler_Transform(t *testing.T) {
	scaler := model.StandardScaler{
		Mean:  []float64{18.5, 73.8},
		Scale: []float64{0.5, 2.0},
	}

	out, err := scaler.Transform([]float64{19.0, 77.8})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 2.0, out[1], 1e-9)
}

func TestStandardScaler_Transform_ZeroScale(t *testing.T) {
	scaler := model.StandardScaler{Mean: []float64{10.0}, Scale: []float64{0.0}}

	out, err := scaler.Transform([]float64{12.0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[0], 1e-9)
}

func TestStandardScaler_Transform_DimensionMismatch(t *testing.T) {
	scaler := model.StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}

	_, err := scaler.Transform([]float64{1.0})
	require.Error(t, err)
}

func TestKMeans_Predict(t *testing.T) {
	km := model.KMeans{Centroids: [][]float64{
		{0.0, 0.0},
		{10.0, 10.0},
		{-5.0, 5.0},
	}}

	cluster, err := km.Predict([]float64{9.0, 11.0})
	require.NoError(t, err)
	assert.Equal(t, 1, cluster)

	cluster, err = km.Predict([]float64{-4.0, 4.0})
	require.NoError(t, err)
	assert.Equal(t, 2, cluster)
}

func TestKMeans_Predict_Errors(t *testing.T) {
	km := model.KMeans{}
	_, err := km.Predict([]float64{0, 0})
	require.Error(t, err)

	km = model.KMeans{Centroids: [][]float64{{0, 0, 0}}}
	_, err = km.Predict([]float64{0, 0})
	require.Error(t, err)
}
