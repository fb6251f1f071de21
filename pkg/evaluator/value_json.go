package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/sanma/boundvar/pkg/ast"
)

// ValueToJSON marshals a terminal value. Integers are written as JSON
// numbers of whatever length they need.
func ValueToJSON(e ast.Expr) ([]byte, error) {
	switch n := e.(type) {
	case *ast.BoolLiteral:
		return json.Marshal(n.Value)
	case *ast.IntLiteral:
		return []byte(n.Value.String()), nil
	case *ast.StrLiteral:
		return json.Marshal(n.Value)
	}
	return nil, fmt.Errorf("cannot marshal %s: not a value", TypeName(e))
}

// resultJSON is the wire shape of an ExecResult.
type resultJSON struct {
	Value          json.RawMessage `json:"value,omitempty"`
	Type           string          `json:"type"`
	StrictOps      int64           `json:"strictOps"`
	BetaReductions int64           `json:"betaReductions"`
	Passes         int             `json:"passes"`
	Exhausted      bool            `json:"exhausted"`
}

// ResultToJSON marshals the outcome of a run. Value is omitted when the
// run did not reach one.
func ResultToJSON(res *ExecResult) ([]byte, error) {
	out := resultJSON{
		Type:           TypeName(res.Expr),
		StrictOps:      res.Stats.StrictOps,
		BetaReductions: res.Stats.BetaReductions,
		Passes:         res.Passes,
		Exhausted:      res.Exhausted,
	}
	if res.IsValue() {
		v, err := ValueToJSON(res.Expr)
		if err != nil {
			return nil, err
		}
		out.Value = v
	}
	return json.Marshal(out)
}

// ParseJSONToValue converts a JSON scalar (boolean, integer or string) into
// a value literal.
func ParseJSONToValue(data json.RawMessage) (ast.Expr, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	switch val := raw.(type) {
	case bool:
		return ast.NewBool(val), nil
	case string:
		return ast.NewString(val), nil
	case json.Number:
		n, ok := new(big.Int).SetString(val.String(), 10)
		if !ok {
			return nil, fmt.Errorf("%s is not an integer", val)
		}
		return ast.NewInt(n), nil
	}
	return nil, fmt.Errorf("JSON %T has no value form", raw)
}
