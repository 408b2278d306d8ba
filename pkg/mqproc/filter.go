package mqproc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter decides whether a delivered value should actually reach a
// wrapped consumer. Filtering is a delivery-layer concern only: a
// filtered-out value still advances the subscription's cursor exactly
// like a delivered one, so ordering and at-most-one-in-flight hold
// regardless of what the predicate does.
type Filter interface {
	Match(key string, value []byte) bool
}

// celFilter evaluates a compiled CEL expression against the (key, value)
// pair. value is exposed both as raw bytes and, best-effort, as parsed
// JSON.
type celFilter struct {
	prog cel.Program
}

// NewCELFilter compiles expr into a Filter. expr must evaluate to a bool;
// it sees the subscription key as `key`, the raw value as `value`, and,
// when value parses as JSON, the decoded document as `json`.
func NewCELFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("mqproc: empty filter expression")
	}
	env, err := cel.NewEnv(
		cel.Variable("key", cel.StringType),
		cel.Variable("value", cel.BytesType),
		cel.Variable("json", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("mqproc: cel env: %w", err)
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("mqproc: cel parse: %w", iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return nil, fmt.Errorf("mqproc: cel check: %w", iss2.Err())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("mqproc: cel program: %w", err)
	}
	return &celFilter{prog: prog}, nil
}

func (f *celFilter) Match(key string, value []byte) bool {
	var jsonObj any
	_ = json.Unmarshal(value, &jsonObj)
	out, _, err := f.prog.Eval(map[string]any{
		"key":   key,
		"value": value,
		"json":  jsonObj,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// FilteredConsumer wraps a Consumer[string,[]byte] so only values
// matching Filter reach it. It is meant for use with
// MultiQueueProcessor[string, []byte], the shape the demo and ops
// surfaces use for byte-payload dispatch.
type FilteredConsumer struct {
	Filter   Filter
	Consumer Consumer[string, []byte]
}

func (f *FilteredConsumer) Consume(key string, value []byte) {
	if f.Filter == nil || f.Filter.Match(key, value) {
		f.Consumer.Consume(key, value)
	}
}
