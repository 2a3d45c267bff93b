// Package ctx holds the key type for values the store's packages put into a context.Context.
package ctx

// CTXKey is the type used by all keys put in a context.
// As recommended by the package context, the store defines and uses its own data type for keys in the use of WithValue.
type CTXKey string
