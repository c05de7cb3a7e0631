package tools

import "context"

// Operations accepted by calculate.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// DivideByZeroText is returned by calculate instead of a result when b is 0.
const DivideByZeroText = "Error: Cannot divide by zero"

// ArithmeticTools returns the add and calculate tools.
func ArithmeticTools() []Definition {
	operands := []Param{
		{Name: "a", Type: TypeNumber, Description: "First operand", Required: true},
		{Name: "b", Type: TypeNumber, Description: "Second operand", Required: true},
	}

	return []Definition{
		{
			Name:        "add",
			Description: "Add two numbers",
			Params:      operands,
			Handler:     handleAdd,
		},
		{
			Name:        "calculate",
			Description: "Perform a basic arithmetic operation (add, subtract, multiply or divide) on two numbers",
			Params: append([]Param{{
				Name:        "operation",
				Type:        TypeString,
				Description: "The operation to perform",
				Required:    true,
				Enum:        []string{OpAdd, OpSubtract, OpMultiply, OpDivide},
			}}, operands...),
			Handler: handleCalculate,
		},
	}
}

func handleAdd(_ context.Context, in Input) Envelope {
	return TextEnvelope(FormatNumber(in.Number("a") + in.Number("b")))
}

func handleCalculate(_ context.Context, in Input) Envelope {
	a, b := in.Number("a"), in.Number("b")

	var result float64
	switch in.String("operation") {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return TextEnvelope(DivideByZeroText)
		}
		result = a / b
	}
	return TextEnvelope(FormatNumber(result))
}
