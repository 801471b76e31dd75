package calculator

import (
	"encoding/json"
	"fmt"
	"math"

	"calc-engine/internal/engine"
)

// BinaryRequest is the JSON body for POST /calculator/{operation}.
type BinaryRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ScientificRequest is the JSON body for POST /calculator/scientific/{function}.
type ScientificRequest struct {
	Value float64 `json:"value"`
}

// CompoundRequest is the JSON body for POST /calculator/financial/compound.
// A missing compounds_per_year means monthly compounding.
type CompoundRequest struct {
	Principal        float64 `json:"principal"`
	Rate             float64 `json:"rate"`
	Time             float64 `json:"time"`
	CompoundsPerYear *Count  `json:"compounds_per_year"`
}

// Count is a whole number that may be written with a fraction, such as 12.0.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("%s is not a whole number", b)
	}
	*c = Count(f)
	return nil
}

// LoanRequest is the JSON body for POST /calculator/financial/loan. Rate is
// an annual percentage.
type LoanRequest struct {
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Years     float64 `json:"years"`
}

// StatisticsRequest is the JSON body for POST /calculator/statistics.
type StatisticsRequest struct {
	Data []float64 `json:"data"`
}

// BatchRequest is the JSON body for POST /calculate/batch. Each entry is a
// request of the shape POST /calculate accepts.
type BatchRequest struct {
	Requests []json.RawMessage `json:"requests"`
}

// BatchResponse lists one item per request, in request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// BatchItem is either a calculation result or an error, never both.
type BatchItem struct {
	*engine.Result
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // any basic operation name
	Value float64 `json:"value"` // the operand applied with the running total
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"`
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial float64       `json:"initial"`
	Steps   []ChainResult `json:"steps"`
	Result  float64       `json:"result"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op      string  `json:"op"`
	Value   float64 `json:"value"`
	Result  float64 `json:"result"`
	Formula string  `json:"formula"`
}
