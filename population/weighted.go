package population

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// WeightedDistances is a distance/weight table in column layout.
//
// Distances may be non-finite (a z-score or range distance reports +Inf
// for a deviation it cannot scale). They encode as the JSON strings "inf",
// "-inf" and "nan" and decode back to the same values.
type WeightedDistances struct {
	Distance []float64 `json:"distance"`
	Weight   []float64 `json:"w"`
}

// WeightedDistance is one row of WeightedDistances.
type WeightedDistance struct {
	Distance float64 `json:"distance"`
	Weight   float64 `json:"w"`
}

// Len returns the number of rows.
func (wd WeightedDistances) Len() int { return len(wd.Distance) }

// Rows returns the table in row layout.
func (wd WeightedDistances) Rows() []WeightedDistance {
	rows := make([]WeightedDistance, wd.Len())
	for i := range rows {
		rows[i] = WeightedDistance{Distance: wd.Distance[i], Weight: wd.Weight[i]}
	}
	return rows
}

// TotalWeight returns the sum of the weight column.
func (wd WeightedDistances) TotalWeight() float64 {
	return floats.Sum(wd.Weight)
}

type weightedDistancesJSON struct {
	Distance []jsonFloat `json:"distance"`
	Weight   []jsonFloat `json:"w"`
}

// MarshalJSON implements json.Marshaler.
func (wd WeightedDistances) MarshalJSON() ([]byte, error) {
	return json.Marshal(weightedDistancesJSON{
		Distance: toJSONFloats(wd.Distance),
		Weight:   toJSONFloats(wd.Weight),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (wd *WeightedDistances) UnmarshalJSON(data []byte) error {
	var raw weightedDistancesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	wd.Distance = fromJSONFloats(raw.Distance)
	wd.Weight = fromJSONFloats(raw.Weight)
	return nil
}

type weightedDistanceJSON struct {
	Distance jsonFloat `json:"distance"`
	Weight   jsonFloat `json:"w"`
}

// MarshalJSON implements json.Marshaler.
func (r WeightedDistance) MarshalJSON() ([]byte, error) {
	return json.Marshal(weightedDistanceJSON{
		Distance: jsonFloat(r.Distance),
		Weight:   jsonFloat(r.Weight),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *WeightedDistance) UnmarshalJSON(data []byte) error {
	var raw weightedDistanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Distance = float64(raw.Distance)
	r.Weight = float64(raw.Weight)
	return nil
}

// jsonFloat is a float64 that encodes Inf and NaN as strings.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case "null":
		return nil
	case `"inf"`:
		*f = jsonFloat(math.Inf(1))
		return nil
	case `"-inf"`:
		*f = jsonFloat(math.Inf(-1))
		return nil
	case `"nan"`:
		*f = jsonFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("population: invalid number %s", s)
	}
	*f = jsonFloat(v)
	return nil
}

func toJSONFloats(v []float64) []jsonFloat {
	if v == nil {
		return nil
	}
	out := make([]jsonFloat, len(v))
	for i, x := range v {
		out[i] = jsonFloat(x)
	}
	return out
}

func fromJSONFloats(v []jsonFloat) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
