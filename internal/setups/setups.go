// Package setups holds the build-time board configurations. Exactly one file
// defining Selected is compiled in, chosen by build tags.
package setups

// keypadLayout is the 4x4 membrane keypad printed legend.
var keypadLayout = []string{
	"123+",
	"456-",
	"789*",
	"C0=/",
}
