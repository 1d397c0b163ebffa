// Command mcp-docker-gateway runs the MCP-to-Docker gateway server.
package main

import "github.com/dockermcp/gateway/internal/cli"

func main() {
	cli.Execute()
}
