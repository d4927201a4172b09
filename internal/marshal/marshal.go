// Package marshal converts roll results into structured protobuf values.
//
// An expression result becomes a list with one entry per term. A term result
// becomes the two-element list [total, [roll, ...]]. Order is preserved at
// both levels. Conversion is pure and cannot fail.
package marshal

import (
	"fmt"

	"github.com/louisbranch/diceroll/internal/dice"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Expression marshals an expression result.
func Expression(result dice.ExpressionResult) *structpb.ListValue {
	values := make([]*structpb.Value, len(result))
	for i, term := range result {
		values[i] = structpb.NewListValue(Term(term))
	}
	return &structpb.ListValue{Values: values}
}

// Term marshals a single term result.
func Term(result dice.TermResult) *structpb.ListValue {
	rolls := make([]*structpb.Value, len(result.Rolls))
	for i, roll := range result.Rolls {
		rolls[i] = structpb.NewNumberValue(float64(roll))
	}
	return &structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(float64(result.Total)),
		structpb.NewListValue(&structpb.ListValue{Values: rolls}),
	}}
}

// TermResult reads a marshaled term back into a dice.TermResult.
func TermResult(list *structpb.ListValue) (dice.TermResult, error) {
	values := list.GetValues()
	if len(values) != 2 {
		return dice.TermResult{}, fmt.Errorf("term must have 2 entries, got %d", len(values))
	}
	total, err := integer(values[0])
	if err != nil {
		return dice.TermResult{}, fmt.Errorf("term total: %w", err)
	}
	rollValues := values[1].GetListValue()
	if rollValues == nil {
		return dice.TermResult{}, fmt.Errorf("term rolls must be a list")
	}
	rolls := make([]int64, len(rollValues.GetValues()))
	for i, value := range rollValues.GetValues() {
		roll, err := integer(value)
		if err != nil {
			return dice.TermResult{}, fmt.Errorf("term roll %d: %w", i, err)
		}
		rolls[i] = roll
	}
	return dice.TermResult{Total: total, Rolls: rolls}, nil
}

// ExpressionResult reads a marshaled expression back into a
// dice.ExpressionResult.
func ExpressionResult(list *structpb.ListValue) (dice.ExpressionResult, error) {
	values := list.GetValues()
	result := make(dice.ExpressionResult, len(values))
	for i, value := range values {
		term := value.GetListValue()
		if term == nil {
			return nil, fmt.Errorf("term %d must be a list", i)
		}
		parsed, err := TermResult(term)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		result[i] = parsed
	}
	return result, nil
}

// ToJSON renders a marshaled result as compact JSON.
func ToJSON(list *structpb.ListValue) ([]byte, error) {
	data, err := protojson.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}

func integer(value *structpb.Value) (int64, error) {
	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", value.GetKind())
	}
	n := int64(number.NumberValue)
	if float64(n) != number.NumberValue {
		return 0, fmt.Errorf("expected an integer, got %v", number.NumberValue)
	}
	return n, nil
}
