// Package calc implements a calculator for float64 arithmetic expressions.
//
// Expressions are written the usual way: "1 + 2 * 3" is 7, "2^3^2" is
// "2^(3^2)", and "(1 + 2) * 3" is 9. The operators are + - * / % ^ and unary
// -. Unary minus binds tighter than exponentiation by default, so "-2^2" is 4;
// the NegateAfterPower parse option swaps that rule.
//
// Names like pi are constants and names followed by a parenthesized argument
// like sin(x) are function calls, both looked up in a Registry. Variables
// $0, $1, ... refer to earlier results kept by a Calculator, and $ans refers
// to the most recent one.
package calc
