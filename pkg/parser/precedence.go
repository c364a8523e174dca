package parser

// Precedence ladder, low to high (spec §4.2).
const (
	Lowest = iota
	Equals  // =
	Compare // < >
	Sum     // + - |
	Product // * / &
	Prefix  // unary - ~
	Call    // .
	Index   // [
)
