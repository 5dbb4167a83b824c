// Package logger provides leveled, colored logging for musings commands.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and errors
//
// Without flags only WarnfAlways output is shown; results are reported by
// the command's final message instead.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %s", id)
//
// Workflows receive the logger by value through their options struct, so
// tests can point Out and ErrOut at a buffer.
package logger
