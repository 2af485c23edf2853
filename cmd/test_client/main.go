// Command test_client exercises the MCP tools of a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:5000/mcp/stream", "MCP streamable HTTP endpoint")
	query := flag.String("query", "software engineer", "job_search query")
	spreadsheetID := flag.String("sheet", "", "spreadsheet id for sheets_export; skipped when empty")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "job-portal-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: *endpoint}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	firstID := testJobSearch(ctx, session, *query)
	if firstID != "" {
		testJobGet(ctx, session, firstID)
	}
	if *spreadsheetID != "" && firstID != "" {
		testSheetsExport(ctx, session, *spreadsheetID, firstID)
	}

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: tools/list")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("tools/list failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testJobSearch(ctx context.Context, session *mcp.ClientSession, query string) string {
	fmt.Println("\nTEST: job_search")

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"query": query},
	})
	if err != nil {
		log.Printf("job_search failed: %v", err)
		return ""
	}
	printResult(res)

	out, ok := res.StructuredContent.(map[string]any)
	if !ok {
		return ""
	}
	jobs, _ := out["jobs"].([]any)
	if len(jobs) == 0 {
		return ""
	}
	first, _ := jobs[0].(map[string]any)
	id, _ := first["id"].(string)
	return id
}

func testJobGet(ctx context.Context, session *mcp.ClientSession, id string) {
	fmt.Println("\nTEST: job_get")

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_get",
		Arguments: map[string]any{"id": id},
	})
	if err != nil {
		log.Printf("job_get failed: %v", err)
		return
	}
	printResult(res)
}

func testSheetsExport(ctx context.Context, session *mcp.ClientSession, spreadsheetID, id string) {
	fmt.Println("\nTEST: sheets_export")

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "sheets_export",
		Arguments: map[string]any{
			"job_ids": []string{id},
			"sheet":   map[string]any{"spreadsheet_id": spreadsheetID},
		},
	})
	if err != nil {
		log.Printf("sheets_export failed: %v", err)
		return
	}
	printResult(res)
}

func printResult(res *mcp.CallToolResult) {
	if res.IsError {
		fmt.Print("  (tool error) ")
	}
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
