// Package cli implements the oasmock command-line interface.
//
// Commands:
//
//	oasmock serve [spec]                 run the mock server
//	oasmock mock <spec> <METHOD> <path>  negotiate one response and print it
//	oasmock validate <spec>              load a document and list its operations
//	oasmock version                      print build information
package cli
