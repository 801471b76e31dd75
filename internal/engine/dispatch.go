package engine

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed request.schema.json
var requestSchemaJSON []byte

const requestSchemaURL = "request.schema.json"

var requestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(requestSchemaURL, bytes.NewReader(requestSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(requestSchemaURL)
})

type basicRequest struct {
	A         float64 `mapstructure:"a"`
	B         float64 `mapstructure:"b"`
	Operation string  `mapstructure:"operation"`
}

type scientificRequest struct {
	Value    float64 `mapstructure:"value"`
	Function string  `mapstructure:"function"`
}

type financialRequest struct {
	Calculation      string  `mapstructure:"calculation"`
	Principal        float64 `mapstructure:"principal"`
	Rate             float64 `mapstructure:"rate"`
	Time             float64 `mapstructure:"time"`
	Years            float64 `mapstructure:"years"`
	CompoundsPerYear *int    `mapstructure:"compounds_per_year"`
}

type statisticalRequest struct {
	Data []float64 `mapstructure:"data"`
}

// Dispatch evaluates a structured call such as
//
//	{"type": "financial", "calculation": "loan_payment", "principal": 200000, "rate": 4.5, "years": 30}
//
// Malformed requests fail with KindInvalidRequest; formula failures keep
// their own kind.
func (e *Engine) Dispatch(fields map[string]any) (*Result, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, newError(KindInvalidRequest, "dispatch", "request is not serializable: %v", err)
	}
	return e.DispatchJSON(raw)
}

// DispatchJSON is Dispatch for an encoded JSON object.
func (e *Engine) DispatchJSON(raw []byte) (*Result, error) {
	doc, err := decodeRequest(raw)
	if err != nil {
		return nil, err
	}

	switch doc["type"] {
	case DomainBasic:
		var req basicRequest
		if err := decodeInto(doc, &req); err != nil {
			return nil, err
		}
		op, err := ParseOperation(req.Operation)
		if err != nil {
			return nil, err
		}
		return e.Basic(req.A, req.B, op)

	case DomainScientific:
		var req scientificRequest
		if err := decodeInto(doc, &req); err != nil {
			return nil, err
		}
		fn, err := ParseFunction(req.Function)
		if err != nil {
			return nil, err
		}
		return e.Scientific(req.Value, fn)

	case DomainFinancial:
		var req financialRequest
		if err := decodeInto(doc, &req); err != nil {
			return nil, err
		}
		switch req.Calculation {
		case CalcCompoundInterest:
			n := DefaultCompoundsPerYear
			if req.CompoundsPerYear != nil {
				n = *req.CompoundsPerYear
			}
			return e.CompoundInterest(req.Principal, req.Rate, req.Time, n)
		case CalcLoanPayment:
			return e.LoanPayment(req.Principal, req.Rate, req.Years)
		}
		return nil, newError(KindInvalidRequest, DomainFinancial, "unknown calculation %q", req.Calculation)

	case DomainStatistical:
		var req statisticalRequest
		if err := decodeInto(doc, &req); err != nil {
			return nil, err
		}
		return e.Statistics(req.Data)
	}

	return nil, newError(KindInvalidRequest, "dispatch", "unknown calculation type %v", doc["type"])
}

func decodeRequest(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, newError(KindInvalidRequest, "dispatch", "invalid JSON: %v", err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, newError(KindInvalidRequest, "dispatch", "request must be a JSON object")
	}

	schema, err := requestSchema()
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, newError(KindInvalidRequest, "dispatch", "%s", describeValidation(err))
	}
	return doc, nil
}

func decodeInto(doc map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     dst,
		TagName:    "mapstructure",
		DecodeHook: integralNumberHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc); err != nil {
		return newError(KindInvalidRequest, "dispatch", "decode request: %v", err)
	}
	return nil
}

// integralNumberHook lets an integer field accept a whole number written
// with a fraction, such as 12.0.
func integralNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if _, err := n.Int64(); err == nil {
		return data, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return data, nil
	}
	return int64(f), nil
}

// describeValidation flattens a schema failure into one line per leaf
// cause, e.g. "/a: expected number, but got string".
func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			loc := v.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, fmt.Sprintf("%s: %s", loc, v.Message))
			return
		}
		for _, c := range v.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(leaves, "; ")
}
