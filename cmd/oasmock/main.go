// oasmock CLI - mock HTTP server for OpenAPI documents
package main

import "github.com/getmockd/oasmock/pkg/cli"

func main() {
	cli.Execute()
}
