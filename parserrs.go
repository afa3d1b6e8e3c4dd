package calc

import "strconv"

// OperatorError is an error indicating an operator token where it cannot be
// used, like * at the start of an expression. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an unmatched parenthesis. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is the open parenthesis with no match, or empty.
	Left string
	// Right is the close parenthesis with no match, or empty.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// UnexpectedTokenError is an error indicating a token other than the one the
// grammar requires, like a number where a close parenthesis must be. It
// implements InputError.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Expected is the token that was required.
	Expected string
	// Found is the token that appeared instead.
	Found string
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Col, "expected "+strconv.Quote(err.Expected)+" but found "+strconv.Quote(err.Found))
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

// TrailingInputError is an error indicating that a complete expression was
// followed by more input. It implements InputError.
type TrailingInputError struct {
	// Col is the position of the first token after the expression.
	Col int
	// Text is that token.
	Text string
}

func (err *TrailingInputError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+" after end of expression")
}

func (err *TrailingInputError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. Every function takes exactly one. It implements InputError.
type CallError struct {
	// Col is the position of the end of the call expression.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the function call tried to imply.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating a missing operand, either at the
// end of the input or before a close parenthesis.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or empty at the end of
	// the input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression nested too deeply to parse.
// It implements InputError.
type DepthError struct {
	// Col is the position where the limit was exceeded.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested more than "+strconv.Itoa(err.Max)+" levels deep")
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*TrailingInputError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*ConstError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*DomainError)(nil)
	_ InputError = (*CalcError)(nil)
)
